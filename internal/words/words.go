// Package words supplies the fixed 5-letter vocabulary and uniform
// random secret-word selection.
package words

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"log"
	"math/big"
	"os"
	"strings"

	"github.com/samber/lo"
)

// SentinelWord is handed out when a secret word cannot be drawn, so a
// session stays playable instead of failing.
const SentinelWord = "error"

const wordLength = 5

// wordsFile mirrors the {"words":[...]} JSON shape of the word list.
type wordsFile struct {
	Words []string `json:"words"`
}

// Source holds the loaded vocabulary.
type Source struct {
	vocab []string
}

// Load reads and normalizes the vocabulary from a JSON file. Entries
// that are not exactly 5 letters are skipped with a warning.
func Load(path string) (*Source, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var wf wordsFile
	if err := json.Unmarshal(data, &wf); err != nil {
		return nil, err
	}
	vocab := lo.FilterMap(wf.Words, func(w string, _ int) (string, bool) {
		w = strings.ToLower(strings.TrimSpace(w))
		if len(w) != wordLength {
			log.Printf("[WARN] Skipping word %q: not %d letters", w, wordLength)
			return "", false
		}
		return w, true
	})
	return &Source{vocab: vocab}, nil
}

// NewSource wraps an in-memory vocabulary, mainly for tests.
func NewSource(vocab []string) *Source {
	return &Source{vocab: vocab}
}

// Words returns the vocabulary for the word-list endpoint.
func (s *Source) Words() []string {
	return s.vocab
}

// Len returns the vocabulary size.
func (s *Source) Len() int {
	return len(s.vocab)
}

// Random draws a secret word uniformly at random. When the vocabulary
// is empty or randomness fails, it falls back to the sentinel word
// rather than returning an error.
func (s *Source) Random(ctx context.Context) string {
	if len(s.vocab) == 0 {
		log.Printf("[WARN] Vocabulary is empty, using sentinel word")
		return SentinelWord
	}

	select {
	case <-ctx.Done():
		log.Printf("[WARN] Random word selection cancelled: %v", ctx.Err())
		return s.vocab[0]
	default:
	}

	n, err := rand.Int(rand.Reader, big.NewInt(int64(len(s.vocab))))
	if err != nil {
		log.Printf("[WARN] Error generating random number: %v, using sentinel word", err)
		return SentinelWord
	}
	return s.vocab[n.Int64()]
}
