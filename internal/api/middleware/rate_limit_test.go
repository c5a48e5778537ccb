package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestRateLimiter_ExpiresIdleEntries(t *testing.T) {
	now := time.Date(2024, 3, 6, 18, 0, 0, 0, time.UTC)
	r := NewRateLimiter(1, 1)
	r.now = func() time.Time { return now }

	first := r.limiter("10.0.0.1")
	r.limiter("10.0.0.2")
	assert.Equal(t, 2, r.size())

	now = now.Add(5 * time.Minute)
	assert.Same(t, first, r.limiter("10.0.0.1"))

	// 10.0.0.2 ficou parado mais que maxAge; 10.0.0.1 foi usado há 6 minutos
	now = now.Add(6 * time.Minute)
	r.limiter("10.0.0.3")
	assert.Equal(t, 2, r.size())
	assert.Same(t, first, r.limiter("10.0.0.1"))

	now = now.Add(defaultLimiterMaxAge + time.Second)
	r.limiter("10.0.0.4")
	assert.Equal(t, 1, r.size())
}

func TestRateLimiter_LimitPerIP(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := NewRateLimiter(0.001, 1)
	router := gin.New()
	router.GET("/", r.Limit(), func(c *gin.Context) { c.Status(http.StatusOK) })

	call := func(ip string) int {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = ip + ":1234"
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w.Code
	}
	assert.Equal(t, http.StatusOK, call("10.0.0.1"))
	assert.Equal(t, http.StatusTooManyRequests, call("10.0.0.1"))
	assert.Equal(t, http.StatusOK, call("10.0.0.2"))
}
