package game

import "strings"

// Game dimensions shared by the whole module.
const (
	WordLength = 5 // Letters per word
	MaxGuesses = 6 // Guesses per game
)

// LetterState classifies a single guessed letter against the secret word.
type LetterState string

const (
	StateCorrect LetterState = "correct"
	StatePresent LetterState = "present"
	StateAbsent  LetterState = "absent"
	StateUnset   LetterState = "unset"
)

// Classify evaluates a guess against the secret word, one position at a
// time: a letter is correct when it matches the secret at that position,
// present when the secret contains it anywhere, absent otherwise. Each
// position is judged independently; duplicate letters get no budget.
func Classify(secret, guess string) [WordLength]LetterState {
	var states [WordLength]LetterState
	for i := 0; i < WordLength; i++ {
		switch {
		case guess[i] == secret[i]:
			states[i] = StateCorrect
		case strings.ContainsRune(secret, rune(guess[i])):
			states[i] = StatePresent
		default:
			states[i] = StateAbsent
		}
	}
	return states
}

// stateRank orders letter states for keyboard aggregation.
// Correct beats present beats absent beats unset.
func stateRank(s LetterState) int {
	switch s {
	case StateCorrect:
		return 3
	case StatePresent:
		return 2
	case StateAbsent:
		return 1
	default:
		return 0
	}
}

// KeyboardState aggregates letter states across all guesses so far.
// A letter's state only ever upgrades: once correct it stays correct,
// present is never demoted to absent. Letters never guessed are unset.
func KeyboardState(secret string, guesses []string) map[rune]LetterState {
	states := make(map[rune]LetterState, 26)
	for r := 'a'; r <= 'z'; r++ {
		states[r] = StateUnset
	}
	for _, guess := range guesses {
		result := Classify(secret, guess)
		for i, state := range result {
			letter := rune(guess[i])
			if stateRank(state) > stateRank(states[letter]) {
				states[letter] = state
			}
		}
	}
	return states
}
