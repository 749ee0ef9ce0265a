package game

import "strings"

// Mode distinguishes a scored daily game from a free practice game.
type Mode string

const (
	ModeDaily    Mode = "daily"
	ModePractice Mode = "practice"
)

// Key names for the non-letter keys the state machine understands.
const (
	KeyEnter     = "Enter"
	KeyBackspace = "Backspace"
)

// Session holds one player's game from first keypress to win or loss.
// It is mutated only through HandleKey and is not safe for concurrent
// use; callers serialize access per player.
type Session struct {
	secret  string
	mode    Mode
	guesses []string
	current string
	over    bool
	won     bool
}

// Completion is emitted exactly once, when a session reaches a terminal
// state. Scoring and streak bookkeeping happen only in response to it.
type Completion struct {
	Won       bool
	TriesUsed int
	Mode      Mode
	Secret    string
}

// NewSession starts a fresh game for the given secret word.
func NewSession(secret string, mode Mode) *Session {
	return &Session{
		secret:  strings.ToLower(secret),
		mode:    mode,
		guesses: []string{},
	}
}

// HandleKey is the single mutation entry point. Letters a-z extend the
// current guess, Backspace shortens it, Enter commits a full guess.
// Anything else, and any key after the game is over, is a silent no-op.
// It returns a non-nil Completion on the keypress that ends the game.
func (s *Session) HandleKey(key string) *Completion {
	if s.over {
		return nil
	}

	switch {
	case isLetterKey(key):
		if len(s.current) < WordLength {
			s.current += strings.ToLower(key)
		}
	case key == KeyBackspace:
		if len(s.current) > 0 {
			s.current = s.current[:len(s.current)-1]
		}
	case key == KeyEnter:
		if len(s.current) == WordLength {
			return s.commitGuess()
		}
	}
	return nil
}

// commitGuess appends the buffered guess and resolves win/loss.
func (s *Session) commitGuess() *Completion {
	guess := s.current
	s.guesses = append(s.guesses, guess)
	s.current = ""

	if guess == s.secret {
		s.won = true
		s.over = true
		return &Completion{Won: true, TriesUsed: len(s.guesses), Mode: s.mode, Secret: s.secret}
	}
	if len(s.guesses) >= MaxGuesses {
		s.over = true
		return &Completion{Won: false, TriesUsed: MaxGuesses, Mode: s.mode, Secret: s.secret}
	}
	return nil
}

// isLetterKey reports whether key is a single ASCII letter.
func isLetterKey(key string) bool {
	if len(key) != 1 {
		return false
	}
	r := key[0]
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

// Mode returns the session's game mode.
func (s *Session) Mode() Mode { return s.mode }

// Guesses returns the committed guesses in submission order.
func (s *Session) Guesses() []string { return s.guesses }

// CurrentGuess returns the in-progress guess buffer.
func (s *Session) CurrentGuess() string { return s.current }

// Over reports whether the session reached a terminal state.
func (s *Session) Over() bool { return s.over }

// Won reports whether the session ended in a win.
func (s *Session) Won() bool { return s.won }

// State reports the coarse session state for API responses.
func (s *Session) State() string {
	if s.over {
		if s.won {
			return "won"
		}
		return "lost"
	}
	return "in_progress"
}

// Secret reveals the secret word once the game is over, empty before.
func (s *Session) Secret() string {
	if s.over {
		return s.secret
	}
	return ""
}

// Board returns per-letter classifications for every committed guess.
func (s *Session) Board() [][]LetterResult {
	rows := make([][]LetterResult, 0, len(s.guesses))
	for _, guess := range s.guesses {
		states := Classify(s.secret, guess)
		row := make([]LetterResult, WordLength)
		for i := 0; i < WordLength; i++ {
			row[i] = LetterResult{Letter: string(guess[i]), State: states[i]}
		}
		rows = append(rows, row)
	}
	return rows
}

// Keyboard returns the cumulative keyboard state keyed by letter.
func (s *Session) Keyboard() map[string]LetterState {
	states := KeyboardState(s.secret, s.guesses)
	out := make(map[string]LetterState, len(states))
	for r, state := range states {
		out[string(r)] = state
	}
	return out
}

// LetterResult pairs a guessed letter with its classification.
type LetterResult struct {
	Letter string      `json:"letter"`
	State  LetterState `json:"state"`
}
