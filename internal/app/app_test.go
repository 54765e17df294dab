package app

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/daily-planner-api/internal/config"
	"github.com/yukikurage/daily-planner-api/internal/logging"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		Port:               "0",
		DBDriver:           config.DriverSQLite,
		DatabaseURL:        filepath.Join(t.TempDir(), "planner.db"),
		DBConnectTimeout:   time.Second,
		JWTSecret:          "app-secret",
		AccessTokenTTL:     time.Hour,
		GinMode:            gin.TestMode,
		LogLevel:           "error",
		CORSAllowedOrigins: []string{"*"},
	}
}

func TestNew_ServesHealth(t *testing.T) {
	a, err := New(testConfig(t), logging.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })

	w := httptest.NewRecorder()
	a.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok","dbConnected":true}`, w.Body.String())
}

func TestNew_RejectsBadConfig(t *testing.T) {
	cfg := testConfig(t)
	cfg.JWTSecret = ""

	_, err := New(cfg, logging.Nop())
	assert.Error(t, err)

	cfg = testConfig(t)
	cfg.DBDriver = "oracle"
	_, err = New(cfg, logging.Nop())
	assert.Error(t, err)
}

func TestServe_ShutsDownOnCancel(t *testing.T) {
	a, err := New(testConfig(t), logging.Nop())
	require.NoError(t, err)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.Serve(ctx, ln) }()

	url := fmt.Sprintf("http://%s/api/health", ln.Addr().String())
	require.Eventually(t, func() bool {
		resp, err := http.Get(url)
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 20*time.Millisecond)

	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}

	_, err = http.Get(url)
	assert.Error(t, err)
}
