package nav

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sesionStub struct {
	activa      bool
	errPausar   error
	errCancelar error
	pausada     bool
	cancelada   bool
}

func (s *sesionStub) Activa() bool { return s.activa }

func (s *sesionStub) Pausar(ctx context.Context) error {
	if s.errPausar != nil {
		return s.errPausar
	}
	s.pausada = true
	s.activa = false
	return nil
}

func (s *sesionStub) Cancelar(ctx context.Context) error {
	if s.errCancelar != nil {
		return s.errCancelar
	}
	s.cancelada = true
	s.activa = false
	return nil
}

func TestGuardEvaluar(t *testing.T) {
	t.Run("passes through without an active count", func(t *testing.T) {
		g := NewGuard(&sesionStub{}, zerolog.Nop())

		r := g.Evaluar("/historial")
		assert.True(t, r.Permitido)
		assert.Equal(t, "/historial", r.Destino)
		assert.Empty(t, g.Pendiente())
	})

	t.Run("blocks and parks the destination during a count", func(t *testing.T) {
		g := NewGuard(&sesionStub{activa: true}, zerolog.Nop())

		r := g.Evaluar("/plantillas")
		assert.False(t, r.Permitido)
		assert.Equal(t, "/plantillas", g.Pendiente())
	})

	t.Run("re-evaluating keeps the newest destination", func(t *testing.T) {
		g := NewGuard(&sesionStub{activa: true}, zerolog.Nop())

		g.Evaluar("/plantillas")
		g.Evaluar("/historial")
		assert.Equal(t, "/historial", g.Pendiente())
	})

	t.Run("suppression passes exactly one navigation", func(t *testing.T) {
		s := &sesionStub{activa: true}
		g := NewGuard(s, zerolog.Nop())
		g.Suprimir()

		assert.True(t, g.Evaluar("/resultados").Permitido)
		assert.False(t, g.Evaluar("/plantillas").Permitido)
	})
}

func TestGuardResolver(t *testing.T) {
	ctx := context.Background()

	t.Run("continuar drops the parked destination and changes nothing", func(t *testing.T) {
		s := &sesionStub{activa: true}
		g := NewGuard(s, zerolog.Nop())
		g.Evaluar("/historial")

		destino, err := g.Resolver(ctx, DecisionContinuar)
		require.NoError(t, err)
		assert.Empty(t, destino)
		assert.Empty(t, g.Pendiente())
		assert.False(t, s.pausada)
		assert.False(t, s.cancelada)
	})

	t.Run("pausar leaves the count pending and releases the navigation", func(t *testing.T) {
		s := &sesionStub{activa: true}
		g := NewGuard(s, zerolog.Nop())
		g.Evaluar("/historial")

		destino, err := g.Resolver(ctx, DecisionPausar)
		require.NoError(t, err)
		assert.Equal(t, "/historial", destino)
		assert.True(t, s.pausada)
	})

	t.Run("cancelar cancels the count and releases the navigation", func(t *testing.T) {
		s := &sesionStub{activa: true}
		g := NewGuard(s, zerolog.Nop())
		g.Evaluar("/plantillas")

		destino, err := g.Resolver(ctx, DecisionCancelar)
		require.NoError(t, err)
		assert.Equal(t, "/plantillas", destino)
		assert.True(t, s.cancelada)
	})

	t.Run("a failed transition keeps the destination parked", func(t *testing.T) {
		s := &sesionStub{activa: true, errCancelar: errors.New("backend down")}
		g := NewGuard(s, zerolog.Nop())
		g.Evaluar("/plantillas")

		_, err := g.Resolver(ctx, DecisionCancelar)
		require.Error(t, err)
		assert.Equal(t, "/plantillas", g.Pendiente())
		assert.True(t, s.activa)
	})

	t.Run("unknown decisions are rejected", func(t *testing.T) {
		g := NewGuard(&sesionStub{activa: true}, zerolog.Nop())

		_, err := g.Resolver(ctx, Decision(99))
		assert.ErrorIs(t, err, ErrDecisionInvalida)
	})
}
