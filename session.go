package main

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"wordrush/internal/game"
)

// PlayerSession wraps a game session with the bookkeeping the registry
// needs. The mutex serializes keypresses so the state machine only ever
// sees them in order.
type PlayerSession struct {
	mu         sync.Mutex
	Game       *game.Session
	UserID     string
	LastAccess time.Time
}

// Do runs fn with exclusive access to the underlying game session.
func (ps *PlayerSession) Do(fn func(*game.Session)) {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	ps.LastAccess = time.Now()
	fn(ps.Game)
}

// getOrCreateSession retrieves the session ID from the cookie or creates a new one.
func (app *App) getOrCreateSession(c *gin.Context) string {
	sessionID, err := c.Cookie(SessionCookieName)
	if err != nil || len(sessionID) < 10 {
		sessionID = uuid.NewString()
		c.SetSameSite(http.SameSiteStrictMode)
		c.SetCookie(SessionCookieName, sessionID, int(app.CookieMaxAge.Seconds()), "/", "", app.IsProduction, true)
		logInfo("Created new session: %s", sessionID)
	}
	return sessionID
}

// lookupPlayerSession returns the stored session for an ID, if any.
func (app *App) lookupPlayerSession(sessionID string) (*PlayerSession, bool) {
	app.SessionMutex.RLock()
	defer app.SessionMutex.RUnlock()
	ps, ok := app.GameSessions[sessionID]
	return ps, ok
}

// storePlayerSession replaces the session for an ID. Starting a new
// game is the only way to abandon a finished or in-progress one.
func (app *App) storePlayerSession(sessionID string, ps *PlayerSession) {
	app.SessionMutex.Lock()
	app.GameSessions[sessionID] = ps
	app.SessionMutex.Unlock()
}

// cleanupStaleSessions drops in-memory sessions idle past maxAge.
func (app *App) cleanupStaleSessions(maxAge time.Duration) {
	cutoff := time.Now().Add(-maxAge)
	removed := 0

	app.SessionMutex.Lock()
	for id, ps := range app.GameSessions {
		ps.mu.Lock()
		stale := ps.LastAccess.Before(cutoff)
		ps.mu.Unlock()
		if stale {
			delete(app.GameSessions, id)
			removed++
		}
	}
	app.SessionMutex.Unlock()

	if removed > 0 {
		logInfo("Session cleanup removed %d stale sessions", removed)
	}
}

// startSessionJanitor periodically evicts stale sessions until stop is closed.
func (app *App) startSessionJanitor(interval time.Duration, stop <-chan struct{}) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				app.cleanupStaleSessions(app.SessionTimeout)
			case <-stop:
				return
			}
		}
	}()
}
