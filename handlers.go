package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"wordrush/internal/game"
	"wordrush/internal/stats"
)

// wordsHandler serves the full vocabulary for client-side word picking.
func (app *App) wordsHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"words": app.Words.Words()})
}

// newGameHandler starts a fresh game session. Daily mode requires a
// signed-in user who has not used up today's attempt; practice mode is
// open to everyone.
func (app *App) newGameHandler(c *gin.Context) {
	ctx := c.Request.Context()

	var req newGameRequest
	_ = c.ShouldBindJSON(&req)
	mode := game.Mode(req.Mode)
	if mode == "" {
		mode = game.ModePractice
	}
	if mode != game.ModeDaily && mode != game.ModePractice {
		c.JSON(http.StatusBadRequest, gin.H{"error": ErrorInvalidMode})
		return
	}

	user, signedIn := currentUser(c)
	if mode == game.ModeDaily {
		if !signedIn {
			c.JSON(http.StatusUnauthorized, gin.H{"error": ErrorDailyNeedsSignIn})
			return
		}
		agg, err := app.Store.GetAggregate(ctx, user.ID)
		if err != nil {
			logWarn("Failed to load aggregate for %s: %v", user.ID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not check daily eligibility"})
			return
		}
		if err := stats.CanPlayDaily(agg, time.Now()); err != nil {
			logInfo("User %s blocked from daily: %v", user.ID, err)
			c.JSON(http.StatusConflict, gin.H{"error": ErrorAlreadyPlayed})
			return
		}
	}

	sessionID := app.getOrCreateSession(c)
	secret := app.Words.Random(ctx)

	ps := &PlayerSession{
		Game:       game.NewSession(secret, mode),
		LastAccess: time.Now(),
	}
	if signedIn {
		ps.UserID = user.ID
	}
	app.storePlayerSession(sessionID, ps)
	logInfo("New %s game for session %s", mode, sessionID)

	c.JSON(http.StatusOK, snapshotOf(ps.Game))
}

// keyHandler feeds one keypress into the session's state machine.
// Invalid keys are silent no-ops; the terminal keypress triggers the
// asynchronous persistence pipeline.
func (app *App) keyHandler(c *gin.Context) {
	var req keyRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Key == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "key is required"})
		return
	}

	sessionID := app.getOrCreateSession(c)
	ps, ok := app.lookupPlayerSession(sessionID)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": ErrorNoActiveGame})
		return
	}

	var completion *game.Completion
	var snapshot gameResponse
	ps.Do(func(s *game.Session) {
		completion = s.HandleKey(req.Key)
		snapshot = snapshotOf(s)
	})

	if completion != nil && ps.UserID != "" {
		go app.finishGame(ps.UserID, completion)
	}

	c.JSON(http.StatusOK, snapshot)
}

// gameStateHandler returns the current board for the session.
func (app *App) gameStateHandler(c *gin.Context) {
	sessionID := app.getOrCreateSession(c)
	ps, ok := app.lookupPlayerSession(sessionID)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": ErrorNoActiveGame})
		return
	}

	var snapshot gameResponse
	ps.Do(func(s *game.Session) {
		snapshot = snapshotOf(s)
	})
	c.JSON(http.StatusOK, snapshot)
}

// snapshotOf renders a session into its API representation.
func snapshotOf(s *game.Session) gameResponse {
	return gameResponse{
		Mode:         s.Mode(),
		State:        s.State(),
		Board:        s.Board(),
		CurrentGuess: s.CurrentGuess(),
		Keyboard:     s.Keyboard(),
		GuessCount:   len(s.Guesses()),
		MaxGuesses:   game.MaxGuesses,
		Secret:       s.Secret(),
	}
}

// finishGame persists a completed game for a signed-in user. It runs
// off the request path: the in-memory session outcome is authoritative
// and persistence failures are logged, never surfaced.
func (app *App) finishGame(userID string, completion *game.Completion) {
	ctx, cancel := context.WithTimeout(context.Background(), app.PersistTimeout)
	defer cancel()

	now := time.Now()
	if completion.Mode == game.ModeDaily {
		result := stats.DailyResult{
			Won:       completion.Won,
			TriesUsed: completion.TriesUsed,
			Timestamp: now,
		}
		agg, err := app.Store.RecordDailyResult(ctx, userID, completion.Secret, result)
		if err != nil {
			logWarn("Failed to persist daily result for %s: %v", userID, err)
			return
		}
		logInfo("Recorded daily result for %s: won=%v tries=%d points=%d streak=%d",
			userID, completion.Won, completion.TriesUsed, agg.Points, agg.CurrentStreak)
		return
	}

	entry := stats.HistoryEntry{
		ID:          newEntryID(),
		Timestamp:   now,
		PointsDelta: game.NetPoints(completion.Mode, completion.Won, completion.TriesUsed),
		Word:        completion.Secret,
		Tries:       completion.TriesUsed,
		Won:         completion.Won,
		Mode:        completion.Mode,
	}
	if err := app.Store.AppendHistory(ctx, userID, entry); err != nil {
		logWarn("Failed to persist practice game for %s: %v", userID, err)
		return
	}
	logInfo("Recorded practice game for %s: won=%v tries=%d", userID, completion.Won, completion.TriesUsed)
}

// statsHandler returns the caller's aggregate and recent history.
func (app *App) statsHandler(c *gin.Context) {
	ctx := c.Request.Context()
	user, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": ErrorUnauthorized})
		return
	}

	agg, err := app.Store.GetAggregate(ctx, user.ID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "stats not found"})
			return
		}
		logWarn("Failed to load aggregate for %s: %v", user.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load stats"})
		return
	}
	history, err := app.Store.ListHistory(ctx, user.ID, stats.HistoryCap)
	if err != nil {
		logWarn("Failed to load history for %s: %v", user.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load stats"})
		return
	}

	c.JSON(http.StatusOK, statsResponse{Aggregate: agg, History: history})
}

// leaderboardHandler returns the top players by points.
func (app *App) leaderboardHandler(c *gin.Context) {
	limit := getEnvInt("LEADERBOARD_LIMIT", 10)
	rows, err := app.Store.TopByPoints(c.Request.Context(), limit)
	if err != nil {
		logWarn("Failed to load leaderboard: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load leaderboard"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"leaders": rows})
}

// healthzHandler returns a JSON health check with server stats.
func (app *App) healthzHandler(c *gin.Context) {
	uptime := time.Since(app.StartTime)
	c.JSON(http.StatusOK, gin.H{
		"status":       "ok",
		"env":          map[bool]string{true: "production", false: "development"}[app.IsProduction],
		"words_loaded": app.Words.Len(),
		"uptime":       formatUptime(uptime),
		"timestamp":    time.Now().UTC().Format(time.RFC3339),
	})
}
