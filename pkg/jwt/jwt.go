package jwt

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	jwtlib "github.com/golang-jwt/jwt/v5"
)

// CookieName is the name of the cookie carrying the session token.
const CookieName = "jwt"

// SessionTTL is how long an issued session token stays valid.
const SessionTTL = 15 * 24 * time.Hour

// ErrInvalidToken is returned when a token fails signature, shape or expiry
// checks.
var ErrInvalidToken = errors.New("invalid token")

// Claims is the session token payload: the owning user's ID plus the
// registered expiry/issued-at claims.
type Claims struct {
	UserID string `json:"userId"`
	jwtlib.RegisteredClaims
}

// TokenManager issues and validates signed session tokens.
type TokenManager interface {
	Generate(userID string) (string, error)
	Validate(tokenString string) (*Claims, error)
	TTL() time.Duration
}

// NewTokenManager creates a TokenManager signing with the given secret.
// A non-positive ttl falls back to SessionTTL.
func NewTokenManager(secret string, ttl time.Duration) TokenManager {
	if ttl <= 0 {
		ttl = SessionTTL
	}
	return &tokenManager{secret: []byte(secret), ttl: ttl}
}

type tokenManager struct {
	secret []byte
	ttl    time.Duration
}

// Generate creates a signed HS256 token embedding the user ID, expiring
// after the manager's TTL.
func (m *tokenManager) Generate(userID string) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID: userID,
		RegisteredClaims: jwtlib.RegisteredClaims{
			ExpiresAt: jwtlib.NewNumericDate(now.Add(m.ttl)),
			IssuedAt:  jwtlib.NewNumericDate(now),
		},
	}
	token := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// Validate parses the token and verifies its signature and expiry. Any
// failure is reported as ErrInvalidToken; the caller never needs to
// distinguish a forged token from an expired one.
func (m *tokenManager) Validate(tokenString string) (*Claims, error) {
	token, err := jwtlib.ParseWithClaims(tokenString, &Claims{}, func(t *jwtlib.Token) (interface{}, error) {
		return m.secret, nil
	}, jwtlib.WithValidMethods([]string{jwtlib.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, ErrInvalidToken
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.UserID == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func (m *tokenManager) TTL() time.Duration {
	return m.ttl
}

// SetAuthCookie attaches the session token to the response. The cookie is
// HTTP-only with SameSite=Strict; secure should be true outside development
// so the cookie only travels over HTTPS.
func SetAuthCookie(c *gin.Context, token string, ttl time.Duration, secure bool) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(CookieName, token, int(ttl.Seconds()), "/", "", secure, true)
}

// ClearAuthCookie overwrites the session cookie with an empty value and a
// max-age of zero, invalidating the session client-side.
func ClearAuthCookie(c *gin.Context, secure bool) {
	c.SetSameSite(http.SameSiteStrictMode)
	// -1 makes net/http emit Max-Age=0, expiring the cookie immediately.
	c.SetCookie(CookieName, "", -1, "/", "", secure, true)
}
