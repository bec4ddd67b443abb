package handler

import "github.com/gin-gonic/gin"

// RegisterRoutes mounts the auth endpoints under /api/auth. guard is the
// access-guard middleware protecting the session-retrieval endpoint.
func (h *AuthHandler) RegisterRoutes(r gin.IRouter, guard gin.HandlerFunc) {
	auth := r.Group("/api/auth")
	auth.POST("/signup", h.Signup)
	auth.POST("/login", h.Login)
	auth.POST("/logout", h.Logout)
	auth.GET("/me", guard, h.Me)
}
