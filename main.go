package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	ginGzip "github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	cachecontrol "go.eigsys.de/gin-cachecontrol/v2"
	"golang.org/x/time/rate"

	"wordrush/internal/words"
)

// App bundles the word source, stats store, in-memory game sessions,
// and the configuration the handlers need.
type App struct {
	Words *words.Source
	Store StatsStore

	GameSessions map[string]*PlayerSession
	SessionMutex sync.RWMutex

	LimiterMap   map[string]*rate.Limiter
	LimiterMutex sync.Mutex

	JWTSecret    []byte
	IsProduction bool
	StartTime    time.Time

	SessionTimeout time.Duration
	CookieMaxAge   time.Duration
	AuthTokenTTL   time.Duration
	PersistTimeout time.Duration
	RateLimitRPS   int
	RateLimitBurst int
}

func main() {
	_ = godotenv.Load()

	isProduction := os.Getenv("GIN_MODE") == "release" || os.Getenv("ENV") == "production"
	logInfo("Starting wordrush in %s mode", map[bool]string{true: "production", false: "development"}[isProduction])

	source, err := words.Load("data/words.json")
	if err != nil {
		logFatal("Failed to load words: %v", err)
	}
	logInfo("Loaded %d words from vocabulary", source.Len())

	store, err := OpenSQLiteStore(getEnv("DB_PATH", "data/wordrush.db"))
	if err != nil {
		logFatal("Failed to open stats store: %v", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			logWarn("Failed to close stats store: %v", err)
		}
	}()

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		if isProduction {
			logFatal("JWT_SECRET must be set in production")
		}
		secret = "dev-secret-do-not-use"
		logWarn("JWT_SECRET not set, using development default")
	}

	app := &App{
		Words:          source,
		Store:          store,
		GameSessions:   make(map[string]*PlayerSession),
		LimiterMap:     make(map[string]*rate.Limiter),
		JWTSecret:      []byte(secret),
		IsProduction:   isProduction,
		StartTime:      time.Now(),
		SessionTimeout: getEnvDuration("SESSION_TIMEOUT", 2*time.Hour),
		CookieMaxAge:   getEnvDuration("COOKIE_MAX_AGE", 2*time.Hour),
		AuthTokenTTL:   getEnvDuration("AUTH_TOKEN_TTL", 7*24*time.Hour),
		PersistTimeout: getEnvDuration("PERSIST_TIMEOUT", 10*time.Second),
		RateLimitRPS:   getEnvInt("RATE_LIMIT_RPS", 5),
		RateLimitBurst: getEnvInt("RATE_LIMIT_BURST", 10),
	}

	stop := make(chan struct{})
	defer close(stop)
	app.startSessionJanitor(15*time.Minute, stop)

	router := app.setupRouter()
	startServer(router)
}

// setupRouter installs middleware and registers all routes.
func (app *App) setupRouter() *gin.Engine {
	router := gin.Default()

	router.Use(ginGzip.Gzip(ginGzip.DefaultCompression))
	router.Use(requestIDMiddleware())
	router.Use(cachecontrol.New(cachecontrol.Config{
		NoStore:        true,
		NoCache:        true,
		MustRevalidate: true,
	}))

	if err := router.SetTrustedProxies([]string{"127.0.0.1"}); err != nil {
		logWarn("Failed to set trusted proxies: %v", err)
	}

	router.GET(RouteWords, app.wordsHandler)
	router.POST(RouteGame, app.rateLimitMiddleware(), app.authOptional(), app.newGameHandler)
	router.POST(RouteGameKey, app.authOptional(), app.keyHandler)
	router.GET(RouteGame, app.authOptional(), app.gameStateHandler)

	router.POST(RouteRegister, app.rateLimitMiddleware(), app.registerHandler)
	router.POST(RouteLogin, app.rateLimitMiddleware(), app.loginHandler)
	router.POST(RouteLogout, app.logoutHandler)
	router.GET(RouteMe, app.authRequired(), app.meHandler)

	router.GET(RouteStats, app.authRequired(), app.statsHandler)
	router.GET(RouteLeaderboard, app.leaderboardHandler)
	router.GET(RouteHealthz, app.healthzHandler)

	return router
}

// startServer runs the HTTP server with graceful shutdown on SIGINT/SIGTERM.
func startServer(router *gin.Engine) {
	port := getEnv("PORT", "8080")
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	idleConnsClosed := make(chan struct{})
	go func() {
		sigint := make(chan os.Signal, 1)
		signal.Notify(sigint, syscall.SIGINT, syscall.SIGTERM)
		<-sigint
		logInfo("Shutdown signal received, shutting down server gracefully...")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			logWarn("HTTP server Shutdown: %v", err)
		}
		close(idleConnsClosed)
	}()

	logInfo("Server starting on http://localhost:%s", port)
	if err := srv.ListenAndServe(); err != http.ErrServerClosed {
		logFatal("Server failed to start: %v", err)
	}
	<-idleConnsClosed
	logInfo("Server shutdown complete")
}
