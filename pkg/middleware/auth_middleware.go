package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/aradhya-7-7/XC/internal/domain"
	"github.com/aradhya-7-7/XC/pkg/jwt"
	"github.com/aradhya-7-7/XC/pkg/util"
)

// RequireAuth returns the access-guard middleware. It extracts the session
// token from the auth cookie, validates it, resolves the embedded user ID
// against the store and attaches the resulting user (password excluded) to
// the request context. Requests failing any step never reach the handler.
func RequireAuth(tokens jwt.TokenManager, users domain.UserRepository, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(jwt.CookieName)
		if err != nil || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized: No Token Provided"})
			return
		}

		claims, err := tokens.Validate(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized: Invalid Token"})
			return
		}

		user, err := users.GetByID(c.Request.Context(), claims.UserID)
		if err != nil {
			if errors.Is(err, domain.ErrUserNotFound) {
				c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "User not found"})
				return
			}
			log.Error("failed to resolve session user", zap.Error(err))
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error"})
			return
		}

		util.SetCurrentUser(c, user)
		c.Next()
	}
}
