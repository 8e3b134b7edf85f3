package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// HealthChecker verifies one station dependency.
type HealthChecker interface {
	Name() string
	Check(ctx context.Context) error
}

// HealthCheckerFunc adapts a function to the HealthChecker interface.
type HealthCheckerFunc struct {
	Nombre string
	Fn     func(ctx context.Context) error
}

// Name returns the checker's component name.
func (f HealthCheckerFunc) Name() string { return f.Nombre }

// Check runs the checker.
func (f HealthCheckerFunc) Check(ctx context.Context) error { return f.Fn(ctx) }

// HealthHandler serves the liveness and readiness probes.
type HealthHandler struct {
	checkers []HealthChecker
	logger   zerolog.Logger
}

// NewHealthHandler creates the health handler with the given dependency
// checkers.
func NewHealthHandler(logger zerolog.Logger, checkers ...HealthChecker) *HealthHandler {
	return &HealthHandler{checkers: checkers, logger: logger}
}

// Liveness handles GET /healthz. It answers 200 whenever the process can
// serve requests at all.
func (h *HealthHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Readiness handles GET /readyz and GET /health: every registered checker
// runs with a short deadline and the worst outcome decides the status code.
func (h *HealthHandler) Readiness(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	status := http.StatusOK
	componentes := gin.H{}
	for _, checker := range h.checkers {
		if err := checker.Check(ctx); err != nil {
			h.logger.Warn().Err(err).Str("component", checker.Name()).Msg("Readiness check failed")
			componentes[checker.Name()] = gin.H{"status": "down", "error": err.Error()}
			status = http.StatusServiceUnavailable
			continue
		}
		componentes[checker.Name()] = gin.H{"status": "up"}
	}

	estado := "ok"
	if status != http.StatusOK {
		estado = "degraded"
	}
	c.JSON(status, gin.H{"status": estado, "components": componentes})
}
