package util

import (
	"github.com/gin-gonic/gin"

	"github.com/aradhya-7-7/XC/internal/domain"
)

// ContextUserKey is the gin context key under which the access guard stores
// the authenticated user.
const ContextUserKey = "auth.user"

// SetCurrentUser stores the authenticated user on the request context.
func SetCurrentUser(c *gin.Context, user *domain.User) {
	c.Set(ContextUserKey, user)
}

// CurrentUser extracts the authenticated user placed on the context by the
// access guard.
func CurrentUser(c *gin.Context) (*domain.User, bool) {
	v, ok := c.Get(ContextUserKey)
	if !ok {
		return nil, false
	}
	user, ok := v.(*domain.User)
	return user, ok && user != nil
}
