package main

// Cookie names
const (
	SessionCookieName = "session_id"
	AuthCookieName    = "auth_token"
)

// Route constants
const (
	RouteWords       = "/api/words"
	RouteGame        = "/api/game"
	RouteGameKey     = "/api/game/key"
	RouteStats       = "/api/stats"
	RouteLeaderboard = "/api/leaderboard"
	RouteRegister    = "/api/register"
	RouteLogin       = "/api/login"
	RouteLogout      = "/api/logout"
	RouteMe          = "/api/me"
	RouteHealthz     = "/healthz"
)

// Error message constants
const (
	ErrorNoActiveGame      = "no active game"
	ErrorInvalidMode       = "mode must be daily or practice"
	ErrorDailyNeedsSignIn  = "sign in to play the daily game"
	ErrorAlreadyPlayed     = "already_played_today"
	ErrorInvalidCredential = "invalid email or password"
	ErrorEmailTaken        = "email already registered"
	ErrorUnauthorized      = "unauthorized"
)

// Context key constants
const (
	requestIDKey contextKey = "request_id"
)

type contextKey string
