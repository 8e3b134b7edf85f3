package http

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"conteo-station/internal/metrics"
	"conteo-station/internal/middleware"
)

// RouterConfig holds router configuration options.
type RouterConfig struct {
	RateLimit   int
	RateWindow  time.Duration
	APIKeys     map[string]bool
	CORSOrigins []string
}

// DefaultRouterConfig returns the default router configuration.
func DefaultRouterConfig() RouterConfig {
	return RouterConfig{
		RateLimit:  100,
		RateWindow: time.Minute,
	}
}

// Handlers groups the station's HTTP handlers for router assembly.
type Handlers struct {
	Sesion    *SesionHandler
	Nav       *NavHandler
	Historial *HistorialHandler
	Escaner   *EscanerHandler
	Health    *HealthHandler
}

// NewRouter creates and configures the Gin router for the counting station.
func NewRouter(h Handlers, cfg RouterConfig) *gin.Engine {
	router := gin.New()

	configureGlobalMiddleware(router, &cfg)
	registerInfrastructureRoutes(router, h)

	api := router.Group("/api")
	if len(cfg.APIKeys) > 0 {
		api.Use(middleware.APIKeyAuth(cfg.APIKeys))
	}
	registerAPIRoutes(api, h)

	// The scanner feed stays outside the API group: websocket clients cannot
	// set custom headers, and the feed never mutates the session directly.
	router.GET("/ws/escaner", h.Escaner.Feed)

	return router
}

// configureGlobalMiddleware sets up middleware applied to all routes.
func configureGlobalMiddleware(router *gin.Engine, cfg *RouterConfig) {
	allowedOrigins := cfg.CORSOrigins
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"http://localhost:3000", "http://127.0.0.1:3000"}
	}
	corsConfig := cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Content-Length", "Accept-Encoding", "Accept-Language", "Authorization", "accept", "Cache-Control", "X-Requested-With", "X-API-Key", "X-Request-ID"},
		ExposeHeaders:    []string{"X-Request-ID", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           86400,
	}
	router.Use(cors.New(corsConfig))

	router.Use(
		middleware.RequestID(),
		middleware.Recovery(),
		metrics.PrometheusMiddleware(),
		gzip.Gzip(gzip.DefaultCompression),
		middleware.RequestLogger(),
		middleware.ErrorHandler(),
	)

	if cfg.RateLimit > 0 {
		limiter := middleware.NewRateLimiter(cfg.RateLimit, cfg.RateWindow)
		router.Use(limiter.RateLimit())
	}
}

// registerInfrastructureRoutes registers health and metrics routes.
func registerInfrastructureRoutes(router *gin.Engine, h Handlers) {
	router.GET("/health", h.Health.Readiness)
	router.GET("/healthz", h.Health.Liveness)
	router.GET("/readyz", h.Health.Readiness)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

// registerAPIRoutes registers the counting workflow routes.
func registerAPIRoutes(api *gin.RouterGroup, h Handlers) {
	api.GET("/plantillas", h.Sesion.Plantillas)

	sesion := api.Group("/sesion")
	{
		sesion.POST("", h.Sesion.Iniciar)
		sesion.GET("", h.Sesion.Obtener)
		sesion.POST("/restaurar", h.Sesion.Restaurar)
		sesion.POST("/codigo", h.Sesion.ResolverCodigo)
		sesion.PUT("/productos/:productoId", h.Sesion.RegistrarCantidad)
		sesion.POST("/finalizar", h.Sesion.Finalizar)
		sesion.POST("/cancelar", h.Sesion.Cancelar)
		sesion.POST("/pausar", h.Sesion.Pausar)
	}

	navegacion := api.Group("/navegacion")
	{
		navegacion.POST("", h.Nav.Navegar)
		navegacion.POST("/resolver", h.Nav.ResolverSalida)
	}

	conteos := api.Group("/conteos")
	{
		conteos.GET("", h.Historial.Listar)
		conteos.GET("/:id/reporte", h.Historial.Reporte)
	}
}
