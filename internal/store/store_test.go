package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"

	"conteo-station/internal/domain/model"
)

func openTestDB(t *testing.T) *bun.DB {
	t.Helper()
	db, err := OpenDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, Migrate(context.Background(), db))
	return db
}

func TestSessionStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	s := NewSQLiteSessionStore(openTestDB(t))

	t.Run("empty store has no pointer", func(t *testing.T) {
		_, err := s.Leer(ctx)
		assert.ErrorIs(t, err, ErrSinPuntero)
	})

	t.Run("saved pointer is read back", func(t *testing.T) {
		require.NoError(t, s.Guardar(ctx, Puntero{ConteoID: 7, PlantillaID: 3}))

		p, err := s.Leer(ctx)
		require.NoError(t, err)
		assert.Equal(t, &Puntero{ConteoID: 7, PlantillaID: 3}, p)
	})

	t.Run("saving again replaces the pointer", func(t *testing.T) {
		require.NoError(t, s.Guardar(ctx, Puntero{ConteoID: 9, PlantillaID: 4}))

		p, err := s.Leer(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(9), p.ConteoID)
		assert.Equal(t, int64(4), p.PlantillaID)
	})

	t.Run("deleting removes the pointer", func(t *testing.T) {
		require.NoError(t, s.Borrar(ctx))
		_, err := s.Leer(ctx)
		assert.ErrorIs(t, err, ErrSinPuntero)
	})

	t.Run("deleting an absent pointer is not an error", func(t *testing.T) {
		assert.NoError(t, s.Borrar(ctx))
	})
}

func intPtr(v int) *int { return &v }

func historialFixture() []model.Conteo {
	return []model.Conteo{
		{
			ID:          1,
			PlantillaID: 10,
			Estado:      model.EstadoFinalizado,
			FechaInicio: time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC),
			Productos: []model.ProductoConteo{
				{ProductoID: 100, Codigo: "ABC", Nombre: "Agua 500ml", CantidadDeseada: 60, CantidadSistema: 60, CantidadReal: intPtr(55)},
			},
		},
		{
			ID:          2,
			PlantillaID: 10,
			Estado:      model.EstadoFinalizado,
			FechaInicio: time.Date(2025, 3, 2, 9, 0, 0, 0, time.UTC),
			Productos: []model.ProductoConteo{
				{ProductoID: 100, Codigo: "ABC", Nombre: "Agua 500ml", CantidadDeseada: 60, CantidadSistema: 60, CantidadReal: intPtr(70)},
			},
		},
	}
}

func TestHistorialStore_ReemplazarAndListar(t *testing.T) {
	ctx := context.Background()
	s := NewSQLiteHistorialStore(openTestDB(t))

	require.NoError(t, s.Reemplazar(ctx, historialFixture()))

	conteos, err := s.Listar(ctx)
	require.NoError(t, err)
	require.Len(t, conteos, 2)

	// Most recent first.
	assert.Equal(t, int64(2), conteos[0].ID)
	assert.Equal(t, int64(1), conteos[1].ID)

	// Entry values survive the JSON round trip.
	require.Len(t, conteos[1].Productos, 1)
	p := conteos[1].Productos[0]
	assert.Equal(t, "ABC", p.Codigo)
	require.NotNil(t, p.CantidadReal)
	assert.Equal(t, 55, *p.CantidadReal)
	assert.Equal(t, model.Diferencias{Faltante: 5, Pedido: 5}, p.Diferencias())
}

func TestHistorialStore_ReemplazarClearsPrevious(t *testing.T) {
	ctx := context.Background()
	s := NewSQLiteHistorialStore(openTestDB(t))

	require.NoError(t, s.Reemplazar(ctx, historialFixture()))
	require.NoError(t, s.Reemplazar(ctx, historialFixture()[:1]))

	conteos, err := s.Listar(ctx)
	require.NoError(t, err)
	assert.Len(t, conteos, 1)
}

func TestHistorialStore_GuardarUpserts(t *testing.T) {
	ctx := context.Background()
	s := NewSQLiteHistorialStore(openTestDB(t))

	c := historialFixture()[0]
	c.Estado = model.EstadoEnProgreso
	require.NoError(t, s.Guardar(ctx, c))

	c.Estado = model.EstadoFinalizado
	require.NoError(t, s.Guardar(ctx, c))

	conteos, err := s.Listar(ctx)
	require.NoError(t, err)
	require.Len(t, conteos, 1)
	assert.Equal(t, model.EstadoFinalizado, conteos[0].Estado)
}
