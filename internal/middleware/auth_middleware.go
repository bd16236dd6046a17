package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"badminton_board_backend/internal/models"
	"badminton_board_backend/internal/services"
	"badminton_board_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// Context keys set for downstream handlers.
const (
	ContextUserID      = "userID"
	ContextUsername    = "username"
	ContextCurrentUser = "currentUser"
)

// Authenticator resolves a bearer token to the signed-in user.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*models.PublicProfile, error)
}

// AuthMiddleware creates a Gin middleware that rejects requests without a
// valid token for an active session.
func AuthMiddleware(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusUnauthorized, utils.ErrCodeUnauthorized, "Authorization header required", "Use Bearer <token>"))
			return
		}
		if !authenticate(c, auth, token) {
			return
		}
		c.Next()
	}
}

// OptionalAuthMiddleware lets anonymous requests through. A token that is
// present must still be valid.
func OptionalAuthMiddleware(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader("Authorization") == "" {
			c.Next()
			return
		}
		token, ok := bearerToken(c)
		if !ok {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusUnauthorized, utils.ErrCodeUnauthorized, "Invalid authorization header format", "Use Bearer <token>"))
			return
		}
		if !authenticate(c, auth, token) {
			return
		}
		c.Next()
	}
}

// CurrentUser returns the user set by the auth middleware, or nil for
// anonymous requests.
func CurrentUser(c *gin.Context) *models.PublicProfile {
	v, exists := c.Get(ContextCurrentUser)
	if !exists {
		return nil
	}
	user, _ := v.(*models.PublicProfile)
	return user
}

func bearerToken(c *gin.Context) (string, bool) {
	parts := strings.Fields(c.GetHeader("Authorization"))
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", false
	}
	return parts[1], true
}

func authenticate(c *gin.Context, auth Authenticator, token string) bool {
	user, err := auth.Authenticate(c.Request.Context(), token)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrSessionNotFound):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusUnauthorized, utils.ErrCodeUnauthorized, "Session has ended, please sign in again", ""))
		case errors.Is(err, services.ErrInvalidCredentials), errors.Is(err, services.ErrUserNotFound):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusUnauthorized, utils.ErrCodeUnauthorized, "Invalid or expired token", ""))
		default:
			utils.LogError(err, "Failed to authenticate request")
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to authenticate request", ""))
		}
		return false
	}

	c.Set(ContextUserID, user.ID)
	c.Set(ContextUsername, user.Username)
	c.Set(ContextCurrentUser, user)
	return true
}
