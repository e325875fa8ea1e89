package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/IngAlexfit/caribeVibes-system-sub000/internal/config"
)

func testContext(t *testing.T) echo.Context {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/v1/bookings", nil)
	req.Header.Set("X-Real-IP", "203.0.113.7")
	return echo.New().NewContext(req, httptest.NewRecorder())
}

func TestCallerKeyUsesUserIDWhenSet(t *testing.T) {
	c := testContext(t)
	c.Set("user_id", uint64(42))
	assert.Equal(t, "u42", callerKey(c))

	c.Set("user_id", float64(7))
	assert.Equal(t, "u7", callerKey(c))

	c.Set("user_id", "19")
	assert.Equal(t, "u19", callerKey(c))
}

func TestCallerKeyFallsBackToIP(t *testing.T) {
	c := testContext(t)
	assert.Equal(t, "ip203.0.113.7", callerKey(c))
}

func TestTokenBucketDisabledPassesThrough(t *testing.T) {
	mw := NewTokenBucket(config.RateLimitConfig{Enabled: false}, nil)
	called := false
	h := mw(func(c echo.Context) error {
		called = true
		return nil
	})
	require.NoError(t, h(testContext(t)))
	assert.True(t, called)
}
