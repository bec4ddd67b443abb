package jwt

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidate(t *testing.T) {
	tm := NewTokenManager("super-secret", time.Hour)

	token, err := tm.Generate("user-123")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := tm.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, "user-123", claims.UserID)
}

func TestValidateExpired(t *testing.T) {
	tm := NewTokenManager("super-secret", time.Nanosecond)

	token, err := tm.Generate("user-123")
	require.NoError(t, err)

	time.Sleep(10 * time.Millisecond)
	_, err = tm.Validate(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateWrongSecret(t *testing.T) {
	token, err := NewTokenManager("right-secret", time.Hour).Generate("u1")
	require.NoError(t, err)

	_, err = NewTokenManager("wrong-secret", time.Hour).Validate(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateMalformed(t *testing.T) {
	tm := NewTokenManager("secret", time.Hour)

	for _, tok := range []string{"", "not.a.jwt", "garbage"} {
		_, err := tm.Validate(tok)
		assert.ErrorIs(t, err, ErrInvalidToken, "token %q", tok)
	}
}

func TestDefaultTTL(t *testing.T) {
	tm := NewTokenManager("secret", 0)
	assert.Equal(t, SessionTTL, tm.TTL())
}

func TestSetAuthCookie(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	SetAuthCookie(c, "tok-value", 15*24*time.Hour, true)

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	cookie := cookies[0]
	assert.Equal(t, CookieName, cookie.Name)
	assert.Equal(t, "tok-value", cookie.Value)
	assert.Equal(t, int(SessionTTL.Seconds()), cookie.MaxAge)
	assert.True(t, cookie.HttpOnly)
	assert.True(t, cookie.Secure)
	assert.Equal(t, http.SameSiteStrictMode, cookie.SameSite)
}

func TestClearAuthCookie(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	ClearAuthCookie(c, false)

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	cookie := cookies[0]
	assert.Equal(t, CookieName, cookie.Name)
	assert.Empty(t, cookie.Value)
	assert.Equal(t, -1, cookie.MaxAge)
	assert.True(t, cookie.HttpOnly)
}
