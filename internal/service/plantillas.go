// Package service provides the station's application services over the
// remote inventory backend and the local stores.
package service

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"conteo-station/internal/backend"
	"conteo-station/internal/domain/model"
)

// ErrPlantillaNoEncontrada is returned when a plantilla cannot be resolved.
var ErrPlantillaNoEncontrada = errors.New("service: plantilla not found")

// PlantillasService resolves count templates, shielding the backend from
// one listing call per counting client.
type PlantillasService interface {
	// Listar returns all templates, served from cache within the TTL.
	Listar(ctx context.Context) ([]model.Plantilla, error)
	// Buscar resolves one template by id.
	Buscar(ctx context.Context, id int64) (*model.Plantilla, error)
}

// plantillasCache holds the last successful listing for a bounded time.
type plantillasCache struct {
	plantillas atomic.Value // holds []model.Plantilla
	expiresAt  atomic.Value // holds time.Time
	mu         sync.Mutex
	ttl        time.Duration
}

func newPlantillasCache(ttl time.Duration) *plantillasCache {
	c := &plantillasCache{ttl: ttl}
	c.expiresAt.Store(time.Time{})
	return c
}

func (c *plantillasCache) get() []model.Plantilla {
	if exp, ok := c.expiresAt.Load().(time.Time); ok && time.Now().Before(exp) {
		if plantillas, ok := c.plantillas.Load().([]model.Plantilla); ok {
			return plantillas
		}
	}
	return nil
}

func (c *plantillasCache) set(plantillas []model.Plantilla) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if exp, ok := c.expiresAt.Load().(time.Time); ok && time.Now().Before(exp) {
		return
	}
	c.plantillas.Store(plantillas)
	c.expiresAt.Store(time.Now().Add(c.ttl))
}

type plantillasService struct {
	cli    backend.Client
	cache  *plantillasCache
	logger zerolog.Logger
}

// NewPlantillasService creates a template service with a TTL-bounded cache.
func NewPlantillasService(cli backend.Client, ttl time.Duration, logger zerolog.Logger) PlantillasService {
	return &plantillasService{
		cli:    cli,
		cache:  newPlantillasCache(ttl),
		logger: logger,
	}
}

// Listar returns all templates, served from cache within the TTL.
func (s *plantillasService) Listar(ctx context.Context) ([]model.Plantilla, error) {
	if plantillas := s.cache.get(); plantillas != nil {
		return plantillas, nil
	}

	plantillas, err := s.cli.Plantillas(ctx)
	if err != nil {
		return nil, err
	}
	s.cache.set(plantillas)
	return plantillas, nil
}

// Buscar resolves one template, preferring the cached listing and falling
// back to a direct fetch. A backend 404 maps to ErrPlantillaNoEncontrada.
func (s *plantillasService) Buscar(ctx context.Context, id int64) (*model.Plantilla, error) {
	if plantillas := s.cache.get(); plantillas != nil {
		for i := range plantillas {
			if plantillas[i].ID == id {
				p := plantillas[i]
				return &p, nil
			}
		}
	}

	plantilla, err := s.cli.Plantilla(ctx, id)
	var apiErr *backend.APIError
	if errors.As(err, &apiErr) && apiErr.Status == 404 {
		return nil, ErrPlantillaNoEncontrada
	}
	if err != nil {
		return nil, err
	}
	return plantilla, nil
}
