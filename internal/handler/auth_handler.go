package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/aradhya-7-7/XC/internal/domain"
	"github.com/aradhya-7-7/XC/internal/ratelimit"
	"github.com/aradhya-7-7/XC/pkg/jwt"
	"github.com/aradhya-7-7/XC/pkg/util"
)

// AuthHandler handles the authentication HTTP endpoints.
type AuthHandler struct {
	service      domain.AuthService
	loginLimiter ratelimit.Limiter // nil disables rate limiting
	tokens       jwt.TokenManager
	secureCookie bool
	log          *zap.Logger
}

// NewAuthHandler creates an AuthHandler. limiter may be nil, which disables
// login rate limiting. secureCookie controls the cookie's Secure attribute
// and should be true outside development.
func NewAuthHandler(service domain.AuthService, tokens jwt.TokenManager, limiter ratelimit.Limiter, secureCookie bool, log *zap.Logger) *AuthHandler {
	return &AuthHandler{
		service:      service,
		loginLimiter: limiter,
		tokens:       tokens,
		secureCookie: secureCookie,
		log:          log,
	}
}

// Signup handles POST /api/auth/signup.
func (h *AuthHandler) Signup(c *gin.Context) {
	var req domain.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": domain.ErrInvalidUserData.Error()})
		return
	}

	user, token, err := h.service.Signup(c.Request.Context(), req)
	if err != nil {
		h.writeError(c, "signup", err)
		return
	}

	jwt.SetAuthCookie(c, token, h.tokens.TTL(), h.secureCookie)
	c.JSON(http.StatusCreated, user.Public())
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(c *gin.Context) {
	if !h.allowLogin(c) {
		return
	}

	var req domain.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": domain.ErrInvalidCredentials.Error()})
		return
	}

	user, token, err := h.service.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		h.writeError(c, "login", err)
		return
	}

	jwt.SetAuthCookie(c, token, h.tokens.TTL(), h.secureCookie)
	c.JSON(http.StatusCreated, user.Public())
}

// Logout handles POST /api/auth/logout. It clears the session cookie
// unconditionally; no existing session is required.
func (h *AuthHandler) Logout(c *gin.Context) {
	jwt.ClearAuthCookie(c, h.secureCookie)
	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
}

// Me handles GET /api/auth/me. The access guard has already resolved the
// user onto the context.
func (h *AuthHandler) Me(c *gin.Context) {
	user, ok := util.CurrentUser(c)
	if !ok {
		// Only reachable if the route was registered without the guard.
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized: No Token Provided"})
		return
	}
	c.JSON(http.StatusOK, user.Public())
}

// allowLogin applies the login rate limit when a limiter is configured.
// Limiter failures are logged and the request allowed through; a limiter
// outage must not lock everyone out.
func (h *AuthHandler) allowLogin(c *gin.Context) bool {
	if h.loginLimiter == nil {
		return true
	}
	ok, retryAfter, err := h.loginLimiter.Allow(c.Request.Context(), c.ClientIP())
	if err != nil {
		h.log.Warn("login rate limiter unavailable", zap.Error(err))
		return true
	}
	if !ok {
		c.Header("Retry-After", strconv.FormatInt(int64(retryAfter.Seconds()), 10))
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "Too many login attempts, please try again later"})
		return false
	}
	return true
}

// writeError maps domain errors to HTTP responses. Unexpected errors are
// logged with their detail and answered generically.
func (h *AuthHandler) writeError(c *gin.Context, flow string, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidEmail),
		errors.Is(err, domain.ErrUsernameTaken),
		errors.Is(err, domain.ErrEmailTaken),
		errors.Is(err, domain.ErrPasswordTooShort),
		errors.Is(err, domain.ErrInvalidUserData),
		errors.Is(err, domain.ErrInvalidCredentials):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		h.log.Error("unexpected auth error", zap.String("flow", flow), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error"})
	}
}
