package main

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const userContextKey = "auth_user"

// authUser is the identity attached to an authenticated request.
type authUser struct {
	ID   string
	Name string
}

// registerHandler creates a new account and signs the caller in.
func (app *App) registerHandler(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if _, err := app.Store.UserByEmail(c.Request.Context(), email); err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": ErrorEmailTaken})
		return
	} else if !errors.Is(err, ErrUserNotFound) {
		logWarn("User lookup failed during registration: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "registration failed"})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		logWarn("Password hashing failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "registration failed"})
		return
	}

	user := UserRecord{
		ID:           uuid.NewString(),
		Name:         strings.TrimSpace(req.Name),
		Email:        email,
		PasswordHash: string(hash),
		AvatarURL:    req.AvatarURL,
	}
	if err := app.Store.CreateUser(c.Request.Context(), user); err != nil {
		logWarn("Failed to create user: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "registration failed"})
		return
	}

	logInfo("Registered user %s", user.ID)
	app.setAuthCookie(c, user)
	c.JSON(http.StatusCreated, userResponse{ID: user.ID, Name: user.Name, AvatarURL: user.AvatarURL})
}

// loginHandler verifies credentials and issues the auth cookie.
func (app *App) loginHandler(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := app.Store.UserByEmail(c.Request.Context(), strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": ErrorInvalidCredential})
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": ErrorInvalidCredential})
		return
	}

	app.setAuthCookie(c, user)
	c.JSON(http.StatusOK, userResponse{ID: user.ID, Name: user.Name, AvatarURL: user.AvatarURL})
}

// logoutHandler clears the auth cookie.
func (app *App) logoutHandler(c *gin.Context) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(AuthCookieName, "", -1, "/", "", app.IsProduction, true)
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// meHandler returns the signed-in user's identity.
func (app *App) meHandler(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": ErrorUnauthorized})
		return
	}
	record, err := app.Store.UserByID(c.Request.Context(), user.ID)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": ErrorUnauthorized})
		return
	}
	c.JSON(http.StatusOK, userResponse{ID: record.ID, Name: record.Name, AvatarURL: record.AvatarURL})
}

// setAuthCookie signs a token for the user and sets the http-only cookie.
func (app *App) setAuthCookie(c *gin.Context, user UserRecord) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"id":   user.ID,
		"name": user.Name,
		"exp":  time.Now().Add(app.AuthTokenTTL).Unix(),
	})
	signed, err := token.SignedString(app.JWTSecret)
	if err != nil {
		logWarn("Failed to sign auth token: %v", err)
		return
	}
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(AuthCookieName, signed, int(app.AuthTokenTTL.Seconds()), "/", "", app.IsProduction, true)
}

// parseAuthToken validates a token from the cookie or Authorization
// header and returns the identity it carries.
func (app *App) parseAuthToken(c *gin.Context) (*authUser, error) {
	tokenStr := ""
	if cookie, err := c.Cookie(AuthCookieName); err == nil {
		tokenStr = cookie
	} else if header := c.GetHeader("Authorization"); strings.HasPrefix(header, "Bearer ") {
		tokenStr = strings.TrimPrefix(header, "Bearer ")
	}
	if tokenStr == "" {
		return nil, errors.New("no token")
	}

	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (any, error) {
		return app.JWTSecret, nil
	})
	if err != nil || !token.Valid {
		return nil, errors.New("invalid token")
	}
	id, _ := claims["id"].(string)
	name, _ := claims["name"].(string)
	if id == "" {
		return nil, errors.New("invalid token")
	}
	return &authUser{ID: id, Name: name}, nil
}

// authRequired rejects requests without a valid auth token.
func (app *App) authRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := app.parseAuthToken(c)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": ErrorUnauthorized})
			return
		}
		c.Set(userContextKey, user)
		c.Next()
	}
}

// authOptional attaches the identity when present; guests pass through.
func (app *App) authOptional() gin.HandlerFunc {
	return func(c *gin.Context) {
		if user, err := app.parseAuthToken(c); err == nil {
			c.Set(userContextKey, user)
		}
		c.Next()
	}
}

// currentUser returns the request's identity, if any.
func currentUser(c *gin.Context) (*authUser, bool) {
	val, ok := c.Get(userContextKey)
	if !ok {
		return nil, false
	}
	user, ok := val.(*authUser)
	return user, ok
}
