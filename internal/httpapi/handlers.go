// Package httpapi holds the gateway's auth endpoints: register, login,
// refresh. Handlers stay thin; the protocols live in internal/auth.
package httpapi

import (
	"errors"
	"net/http"
	"time"

	"taskgate/internal/audit"
	"taskgate/internal/auth"
	"taskgate/internal/session"
	"taskgate/internal/users"
	"taskgate/pkg/logger"

	"github.com/gin-gonic/gin"
)

const refreshCookie = "refresh_token"

// Handlers groups the auth HTTP handlers for dependency injection.
type Handlers struct {
	Users    users.Repository
	Sessions *session.Store
	Tokens   *auth.Manager
	Refresh  *auth.RefreshValidator
	Audit    *audit.Service
}

type registerRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// Register creates a user. Duplicate usernames are a 400 with no row
// mutation.
func (h Handlers) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "username and password required"})
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		logger.FromGin(c).Error("password hash failed", "err", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	u, err := h.Users.Create(c.Request.Context(), req.Username, hash)
	if err != nil {
		if errors.Is(err, users.ErrUsernameTaken) {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "username already exists"})
			return
		}
		logger.FromGin(c).Error("user create failed", "err", err)
		c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "user store unavailable"})
		return
	}

	h.Audit.Record(c.Request.Context(), audit.EventTypeRegistered, u.Username, c.ClientIP(), "")
	c.JSON(http.StatusCreated, gin.H{"message": "user registered", "username": u.Username})
}

// Login verifies form credentials, mints the token pair, persists the
// refresh token as the user's single live session, and sets the refresh
// cookie. Unknown-user and wrong-password responses are identical.
func (h Handlers) Login(c *gin.Context) {
	username := c.PostForm("username")
	password := c.PostForm("password")
	if username == "" || password == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid username or password"})
		return
	}

	user, err := h.Users.GetByUsername(c.Request.Context(), username)
	if err != nil {
		if errors.Is(err, users.ErrNotFound) {
			h.Audit.Record(c.Request.Context(), audit.EventTypeLoginFailed, username, c.ClientIP(), "unknown user")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid username or password"})
			return
		}
		logger.FromGin(c).Error("user lookup failed", "err", err)
		c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "user store unavailable"})
		return
	}

	if !auth.VerifyPassword(password, user.PasswordHash) {
		h.Audit.Record(c.Request.Context(), audit.EventTypeLoginFailed, username, c.ClientIP(), "wrong password")
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid username or password"})
		return
	}

	now := time.Now()
	accessToken, err := h.Tokens.IssueAccessToken(now, user)
	if err == nil {
		var refreshToken string
		refreshToken, err = h.Tokens.IssueRefreshToken(now, user)
		if err == nil {
			// The session write is the commit point: if it fails, the
			// refresh cookie must not go out, or it would never validate.
			err = h.Sessions.Put(c.Request.Context(), user.ID, refreshToken, h.Tokens.RefreshTTL())
			if err == nil {
				h.setRefreshCookie(c, refreshToken)
			}
		}
	}
	if err != nil {
		logger.FromGin(c).Error("login failed", "err", err)
		c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "session store unavailable"})
		return
	}

	h.Audit.Record(c.Request.Context(), audit.EventTypeLoginOK, username, c.ClientIP(), "")
	c.JSON(http.StatusOK, tokenResponse{AccessToken: accessToken, TokenType: "Bearer"})
}

// RefreshToken validates the cookie-carried refresh token and mints a new
// access token. The stored refresh token is left as-is: fixed lifetime,
// no rotation.
func (h Handlers) RefreshToken(c *gin.Context) {
	presented, err := c.Cookie(refreshCookie)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid refresh token"})
		return
	}

	user, err := h.Refresh.Validate(c.Request.Context(), presented)
	if err != nil {
		if auth.IsAuthFailure(err) {
			h.Audit.Record(c.Request.Context(), audit.EventTypeRefreshDenied, "", c.ClientIP(), err.Error())
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid refresh token"})
			return
		}
		logger.FromGin(c).Error("refresh validation failed", "err", err)
		c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "session store unavailable"})
		return
	}

	accessToken, err := h.Tokens.IssueAccessToken(time.Now(), user)
	if err != nil {
		logger.FromGin(c).Error("access token issue failed", "err", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	h.Audit.Record(c.Request.Context(), audit.EventTypeRefreshOK, user.Username, c.ClientIP(), "")
	c.JSON(http.StatusOK, tokenResponse{AccessToken: accessToken, TokenType: "Bearer"})
}

func (h Handlers) setRefreshCookie(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(refreshCookie, token, int(h.Tokens.RefreshTTL().Seconds()), "/", "", false, true)
}
