package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func newEngine(mw ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(mw...)
	r.GET("/ok", func(c *gin.Context) { c.String(http.StatusOK, "ok") })
	r.GET("/boom", func(c *gin.Context) { panic("boom") })
	return r
}

func get(r http.Handler, path, ip string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.RemoteAddr = ip + ":1234"
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRecoveryReturnsJSON(t *testing.T) {
	r := newEngine(Recovery(zap.NewNop()))
	w := get(r, "/boom", "10.0.0.1")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"internal error"}`, w.Body.String())
}

func TestRateLimitPerClient(t *testing.T) {
	r := newEngine(RateLimit(1, 2, zap.NewNop()))

	assert.Equal(t, http.StatusOK, get(r, "/ok", "10.0.0.1").Code)
	assert.Equal(t, http.StatusOK, get(r, "/ok", "10.0.0.1").Code)
	assert.Equal(t, http.StatusTooManyRequests, get(r, "/ok", "10.0.0.1").Code)

	assert.Equal(t, http.StatusOK, get(r, "/ok", "10.0.0.2").Code, "other clients have their own bucket")
}

func TestRateLimitDisabled(t *testing.T) {
	r := newEngine(RateLimit(0, 0, zap.NewNop()))
	for i := 0; i < 20; i++ {
		assert.Equal(t, http.StatusOK, get(r, "/ok", "10.0.0.1").Code)
	}
}

func TestLoggingPassesThrough(t *testing.T) {
	r := newEngine(Logging(zap.NewNop()))
	w := get(r, "/ok", "10.0.0.1")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", w.Body.String())
}
