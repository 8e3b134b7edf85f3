package app

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"conteo-station/config"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testConfig() config.Config {
	return config.Config{
		Server: config.ServerConfig{
			Port:       "8080",
			RateLimit:  100,
			RateWindow: time.Minute,
		},
		Backend: config.BackendConfig{
			BaseURL:      "http://localhost:3001/api",
			Timeout:      time.Second,
			PlantillaTTL: 30 * time.Second,
		},
		Store:   config.StoreConfig{Path: ":memory:"},
		Scanner: config.ScannerConfig{BufferSize: 16},
		Log:     config.LogConfig{Level: "error"},
	}
}

func TestInitializeApp(t *testing.T) {
	components, err := InitializeApp(testConfig())
	require.NoError(t, err)
	t.Cleanup(func() { _ = components.DB.Close() })

	require.NotNil(t, components.Router)
	require.NotNil(t, components.Controller)
	require.NotNil(t, components.Procesador)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	components.Router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestInitializeAppReadiness(t *testing.T) {
	components, err := InitializeApp(testConfig())
	require.NoError(t, err)
	t.Cleanup(func() { _ = components.DB.Close() })

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/readyz", nil)
	components.Router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"store"`)
}
