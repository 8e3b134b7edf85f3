package scan

import (
	"context"
	"errors"
	"sync"
)

// ErrSourceActiva rejects starting a source that is already started.
var ErrSourceActiva = errors.New("scan: source already started")

// HubSource adapts the hub's merged decode stream to the Source interface.
// A single subscription is supported at a time.
type HubSource struct {
	hub *Hub

	mu     sync.Mutex
	cancel context.CancelFunc
}

// NewHubSource creates a source over the hub.
func NewHubSource(hub *Hub) *HubSource {
	return &HubSource{hub: hub}
}

// Start subscribes to the hub's decode stream, filtered per r. The returned
// channel closes when Stop is called or ctx is done.
func (s *HubSource) Start(ctx context.Context, r Restricciones) (<-chan Evento, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		return nil, ErrSourceActiva
	}

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	out := make(chan Evento)
	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case ev := <-s.hub.Eventos():
				if r.Dispositivo != "" && ev.Dispositivo != r.Dispositivo {
					continue
				}
				select {
				case out <- ev:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}

// Stop ends the active subscription. Stopping a stopped source is a no-op.
func (s *HubSource) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	return nil
}
