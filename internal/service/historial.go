package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"conteo-station/internal/backend"
	"conteo-station/internal/domain/model"
	"conteo-station/internal/store"
)

// ErrConteoNoEncontrado is returned when a count exists in neither the
// backend nor the local mirror.
var ErrConteoNoEncontrado = errors.New("service: count not found")

// HistorialService serves count history, falling back to the local sqlite
// mirror when the backend is unreachable.
type HistorialService interface {
	// Listar returns all counts, newest first. desdeLocal reports whether
	// the local mirror served the listing because the backend failed.
	Listar(ctx context.Context) (conteos []model.Conteo, desdeLocal bool, err error)
	// Buscar resolves one count by id, backend first, mirror second.
	Buscar(ctx context.Context, id int64) (*model.Conteo, error)
	// Refrescar re-mirrors the backend listing locally.
	Refrescar(ctx context.Context) error
}

type historialService struct {
	cli    backend.Client
	store  store.HistorialStore
	logger zerolog.Logger
}

// NewHistorialService creates a history service over the backend and the
// local mirror.
func NewHistorialService(cli backend.Client, st store.HistorialStore, logger zerolog.Logger) HistorialService {
	return &historialService{cli: cli, store: st, logger: logger}
}

// Listar returns all counts, newest first.
func (s *historialService) Listar(ctx context.Context) ([]model.Conteo, bool, error) {
	conteos, err := s.cli.Conteos(ctx)
	if err == nil {
		if mErr := s.store.Reemplazar(ctx, conteos); mErr != nil {
			s.logger.Warn().Err(mErr).Msg("Could not refresh local count mirror")
		}
		return conteos, false, nil
	}

	s.logger.Warn().Err(err).Msg("Backend listing failed, serving local count mirror")
	locales, lErr := s.store.Listar(ctx)
	if lErr != nil {
		return nil, false, err
	}
	return locales, true, nil
}

// Buscar resolves one count by id, backend first, mirror second.
func (s *historialService) Buscar(ctx context.Context, id int64) (*model.Conteo, error) {
	conteo, err := s.cli.Conteo(ctx, id)
	if err == nil {
		return conteo, nil
	}

	var apiErr *backend.APIError
	if errors.As(err, &apiErr) && apiErr.Status == 404 {
		return nil, ErrConteoNoEncontrado
	}

	locales, lErr := s.store.Listar(ctx)
	if lErr != nil {
		return nil, err
	}
	for i := range locales {
		if locales[i].ID == id {
			c := locales[i]
			return &c, nil
		}
	}
	return nil, ErrConteoNoEncontrado
}

// Refrescar re-mirrors the backend listing locally.
func (s *historialService) Refrescar(ctx context.Context) error {
	conteos, err := s.cli.Conteos(ctx)
	if err != nil {
		return err
	}
	return s.store.Reemplazar(ctx, conteos)
}
