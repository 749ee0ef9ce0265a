package main

import (
	"wordrush/internal/game"
	"wordrush/internal/stats"
)

// newGameRequest is the body for POST /api/game.
type newGameRequest struct {
	Mode string `json:"mode"`
}

// keyRequest is the body for POST /api/game/key.
type keyRequest struct {
	Key string `json:"key"`
}

// gameResponse is the board state returned by the game endpoints.
// Secret is populated only once the game is over.
type gameResponse struct {
	Mode         game.Mode                   `json:"mode"`
	State        string                      `json:"state"`
	Board        [][]game.LetterResult       `json:"board"`
	CurrentGuess string                      `json:"currentGuess"`
	Keyboard     map[string]game.LetterState `json:"keyboard"`
	GuessCount   int                         `json:"guessCount"`
	MaxGuesses   int                         `json:"maxGuesses"`
	Secret       string                      `json:"secret,omitempty"`
}

// registerRequest is the body for POST /api/register.
type registerRequest struct {
	Name      string `json:"name" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=8"`
	AvatarURL string `json:"avatarUrl"`
}

// loginRequest is the body for POST /api/login.
type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// userResponse is the public view of a signed-in user.
type userResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	AvatarURL string `json:"avatarUrl"`
}

// statsResponse bundles a user's aggregate with recent history.
type statsResponse struct {
	Aggregate stats.UserAggregate  `json:"aggregate"`
	History   []stats.HistoryEntry `json:"history"`
}

// LeaderboardRow is one line of the points leaderboard.
type LeaderboardRow struct {
	Name      string `json:"name"`
	AvatarURL string `json:"avatarUrl"`
	Points    int    `json:"points"`
}
