package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"conteo-station/internal/domain/dto"
)

func TestRecoveryHandlesPanic(t *testing.T) {
	router := gin.New()
	router.Use(RequestID(), Recovery())
	router.GET("/explota", func(c *gin.Context) {
		panic("algo salió muy mal")
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/explota", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusInternalServerError, w.Code)

	var resp dto.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, dto.ErrCodeInternal, resp.Error)
	assert.NotEmpty(t, resp.RequestID)
}

func TestRecoveryPassesThroughNormally(t *testing.T) {
	router := gin.New()
	router.Use(Recovery())
	router.GET("/ok", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ok", nil))

	assert.Equal(t, http.StatusNoContent, w.Code)
}
