package game

import "testing"

// Test constants
const (
	TestWordApple = "apple"
	TestWordGrape = "grape"
	TestWordAlley = "alley"
	TestWordZesty = "zesty"
	TestWordLemon = "lemon"
	TestWordPleat = "pleat"
)

// TestClassify checks the per-position letter classification rule.
func TestClassify(t *testing.T) {
	tests := []struct {
		secret  string
		guess   string
		want    [WordLength]LetterState
		comment string
	}{
		{
			secret:  TestWordApple,
			guess:   TestWordApple,
			want:    [WordLength]LetterState{StateCorrect, StateCorrect, StateCorrect, StateCorrect, StateCorrect},
			comment: "All correct.",
		},
		{
			secret:  TestWordApple,
			guess:   TestWordGrape,
			want:    [WordLength]LetterState{StateAbsent, StateAbsent, StatePresent, StatePresent, StateCorrect},
			comment: "Mix of correct, present, absent.",
		},
		{
			secret: TestWordApple,
			guess:  TestWordAlley,
			// Every position is judged on its own: both l's read present
			// because the secret contains an l, with no match budget.
			want:    [WordLength]LetterState{StateCorrect, StatePresent, StatePresent, StatePresent, StateAbsent},
			comment: "Duplicate letters classified independently.",
		},
		{
			secret:  TestWordApple,
			guess:   TestWordZesty,
			want:    [WordLength]LetterState{StateAbsent, StatePresent, StateAbsent, StateAbsent, StateAbsent},
			comment: "Single present letter.",
		},
	}

	for _, tt := range tests {
		got := Classify(tt.secret, tt.guess)
		if got != tt.want {
			t.Errorf("%s: Classify(%q, %q) = %v, want %v", tt.comment, tt.secret, tt.guess, got, tt.want)
		}
	}
}

// TestClassifyCorrectIffPositionMatches checks the correct-state invariant
// over every position of several secret/guess pairs.
func TestClassifyCorrectIffPositionMatches(t *testing.T) {
	pairs := [][2]string{
		{TestWordApple, TestWordGrape},
		{TestWordApple, TestWordAlley},
		{TestWordLemon, TestWordApple},
		{TestWordGrape, TestWordGrape},
	}
	for _, pair := range pairs {
		secret, guess := pair[0], pair[1]
		got := Classify(secret, guess)
		for i := 0; i < WordLength; i++ {
			if (got[i] == StateCorrect) != (guess[i] == secret[i]) {
				t.Errorf("Classify(%q, %q) pos %d: state %v disagrees with position match", secret, guess, i, got[i])
			}
		}
	}
}

// TestKeyboardState checks aggregation across guesses.
func TestKeyboardState(t *testing.T) {
	states := KeyboardState(TestWordApple, []string{TestWordLemon})
	if states['l'] != StatePresent {
		t.Errorf("l after lemon = %v, want present", states['l'])
	}
	if states['m'] != StateAbsent {
		t.Errorf("m after lemon = %v, want absent", states['m'])
	}
	if states['z'] != StateUnset {
		t.Errorf("z never guessed = %v, want unset", states['z'])
	}
}

// TestKeyboardStateNeverDowngrades checks that a stronger state sticks.
func TestKeyboardStateNeverDowngrades(t *testing.T) {
	// First guess puts p correct; the second sees p only out of position.
	states := KeyboardState(TestWordApple, []string{TestWordApple, TestWordPleat})
	if states['p'] != StateCorrect {
		t.Errorf("p downgraded to %v after out-of-position guess, want correct", states['p'])
	}

	// Present must survive later guesses too.
	states = KeyboardState(TestWordApple, []string{TestWordZesty, TestWordLemon})
	if states['e'] != StatePresent {
		t.Errorf("e = %v across guesses, want present", states['e'])
	}
}
