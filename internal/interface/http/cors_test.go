package http

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/yanqian/lawn-advisor/internal/infra/config"
)

func newCORSEngine(cfg config.CORSConfig) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.Use(corsMiddleware(cfg))
	engine.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })
	return engine
}

func corsRequest(engine *gin.Engine, method, origin string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, "/ping", nil)
	if origin != "" {
		req.Header.Set("Origin", origin)
	}
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	return rec
}

func TestCORS_EmptyAllowlistAdmitsAll(t *testing.T) {
	engine := newCORSEngine(config.CORSConfig{})

	rec := corsRequest(engine, http.MethodGet, "https://lawn.example")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	require.Equal(t, requestIDHeader, rec.Header().Get("Access-Control-Expose-Headers"))
}

func TestCORS_AllowlistEchoesKnownOrigin(t *testing.T) {
	engine := newCORSEngine(config.CORSConfig{AllowedOrigins: []string{"https://App.Lawn.example/"}, MaxAge: 10 * time.Minute})

	rec := corsRequest(engine, http.MethodOptions, "https://app.lawn.example")
	require.Equal(t, http.StatusNoContent, rec.Code)
	require.Equal(t, "https://app.lawn.example", rec.Header().Get("Access-Control-Allow-Origin"))
	require.Equal(t, "600", rec.Header().Get("Access-Control-Max-Age"))
	require.Equal(t, "Origin", rec.Header().Get("Vary"))
}

func TestCORS_UnknownOriginGetsNoHeaders(t *testing.T) {
	engine := newCORSEngine(config.CORSConfig{AllowedOrigins: []string{"https://app.lawn.example"}})

	rec := corsRequest(engine, http.MethodGet, "https://evil.example")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))

	rec = corsRequest(engine, http.MethodOptions, "https://evil.example")
	require.Equal(t, http.StatusForbidden, rec.Code)
}
