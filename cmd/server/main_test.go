package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prodsheet/backend/internal/bootstrap"
	"github.com/prodsheet/backend/internal/infrastructure/config"
	"github.com/prodsheet/backend/internal/infrastructure/telemetry"
	"github.com/prodsheet/backend/internal/interfaces/http/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func init() {
	gin.SetMode(gin.TestMode)
	if err := middleware.SetupValidator(); err != nil {
		panic(err)
	}
}

func setupEngine(t *testing.T) *gin.Engine {
	t.Helper()
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[]`))
	}))
	t.Cleanup(backend.Close)

	t.Chdir(t.TempDir())
	t.Setenv("SHEET_BACKEND_BASE_URL", backend.URL+"/api")
	t.Setenv("SHEET_CACHE_DRIVER", "none")
	t.Setenv("SHEET_RENDERER_ENABLED", "false")

	cfg, err := config.Load()
	require.NoError(t, err)

	metrics := telemetry.New(telemetry.Config{Namespace: "server_test"})
	app, err := bootstrap.New(context.Background(), cfg, metrics, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.Close() })

	return newEngine(cfg, app, metrics, zap.NewNop())
}

func TestNewEngine_Routes(t *testing.T) {
	engine := setupEngine(t)

	tests := []struct {
		method string
		target string
		want   int
	}{
		{http.MethodGet, "/health", http.StatusOK},
		{http.MethodGet, "/metrics", http.StatusOK},
		{http.MethodGet, "/api/v1/system/ping", http.StatusOK},
		{http.MethodHead, "/api/v1/system/info", http.StatusOK},
		{http.MethodGet, "/api/v1/orders/bad%20id", http.StatusBadRequest},
		{http.MethodGet, "/api/v1/unknown", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.target, func(t *testing.T) {
			w := httptest.NewRecorder()
			engine.ServeHTTP(w, httptest.NewRequest(tt.method, tt.target, nil))
			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestNewEngine_RequestIDAndSecurityHeaders(t *testing.T) {
	engine := setupEngine(t)

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/system/ping", nil))

	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
}
