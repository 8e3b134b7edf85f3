package app

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"conteo-station/internal/i18n"
	"conteo-station/internal/scan"
)

// Server wraps http.Server with graceful shutdown and drives the scanner
// processing loop alongside it.
type Server struct {
	httpServer      *http.Server
	components      *Components
	shutdownTimeout time.Duration
}

// NewServer creates a new Server instance with optimized settings.
func NewServer(components *Components, port string) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:           ":" + port,
			Handler:        components.Router,
			ReadTimeout:    15 * time.Second,
			WriteTimeout:   15 * time.Second,
			IdleTimeout:    60 * time.Second,
			MaxHeaderBytes: 1 << 20, // 1MB
		},
		components:      components,
		shutdownTimeout: 10 * time.Second,
	}
}

// Run starts the server and the scanner processing loop, blocking until a
// shutdown signal is received.
func (s *Server) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		if err := s.components.Procesador.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Error().Err(err).Msg("Scanner processing loop stopped")
		}
	}()
	go scan.DifundirGuias(ctx, s.components.Hub.Fallas(), s.components.Hub, i18n.GetTranslator())

	errChan := make(chan error, 1)
	go func() {
		log.Info().Str("addr", s.httpServer.Addr).Msg("Server starting")
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errChan:
		return err
	case sig := <-quit:
		log.Info().Str("signal", sig.String()).Msg("Received signal, initiating graceful shutdown")
	}

	return s.Shutdown()
}

// Shutdown gracefully shuts down the server. A count still open at shutdown
// is cancelled on the backend best-effort, matching the abandon-on-exit
// behavior of the counting stations. Paused counts are untouched and stay
// resumable after a restart.
func (s *Server) Shutdown() error {
	s.components.Controller.CancelarMejorEsfuerzo(2 * time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
		return err
	}

	if err := s.components.DB.Close(); err != nil {
		log.Warn().Err(err).Msg("Could not close local store cleanly")
	}

	log.Info().Msg("Server stopped gracefully")
	return nil
}
