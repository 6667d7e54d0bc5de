package middleware

import (
	"github.com/DevNiNi18/flowtrack/internal/constants"
	apierrors "github.com/DevNiNi18/flowtrack/internal/errors"
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

// RequireAuth checks if the user is authenticated via session
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		userID, ok := session.Get(constants.ContextKeyUserID).(string)

		if !ok || userID == "" {
			apierrors.Unauthorized(c, "")
			return
		}

		// Store user ID in context for easy access in handlers
		c.Set(constants.ContextKeyUserID, userID)
		c.Next()
	}
}

// GetUserID retrieves the current user ID from context
func GetUserID(c *gin.Context) (string, bool) {
	userID := c.GetString(constants.ContextKeyUserID)
	return userID, userID != ""
}
