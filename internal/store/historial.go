package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/uptrace/bun"

	"conteo-station/internal/domain/model"
)

// conteoRow mirrors one count locally. The entry list is stored as a JSON
// blob: the historial is consulted as a whole, never queried per entry.
type conteoRow struct {
	bun.BaseModel `bun:"table:conteo_historial,alias:ch"`

	ID            int64     `bun:"id,pk"`
	PlantillaID   int64     `bun:"plantilla_id,notnull"`
	UsuarioID     int64     `bun:"usuario_id"`
	Estado        string    `bun:"estado,notnull"`
	FechaInicio   time.Time `bun:"fecha_inicio"`
	Productos     []byte    `bun:"productos"`
	ActualizadoEn time.Time `bun:"actualizado_en,notnull"`
}

// HistorialStore keeps a local mirror of counts so discrepancy history stays
// consultable while the backend is unreachable.
type HistorialStore interface {
	// Reemplazar replaces the whole mirror with a fresh backend listing.
	Reemplazar(ctx context.Context, conteos []model.Conteo) error
	// Guardar upserts a single count, typically right after finalize.
	Guardar(ctx context.Context, conteo model.Conteo) error
	// Listar returns the mirrored counts, most recent first.
	Listar(ctx context.Context) ([]model.Conteo, error)
}

// SQLiteHistorialStore implements HistorialStore on the station's sqlite file.
type SQLiteHistorialStore struct {
	db *bun.DB
}

// NewSQLiteHistorialStore creates a historial store over an open database.
func NewSQLiteHistorialStore(db *bun.DB) *SQLiteHistorialStore {
	return &SQLiteHistorialStore{db: db}
}

func toRow(c model.Conteo) (*conteoRow, error) {
	productos, err := json.Marshal(c.Productos)
	if err != nil {
		return nil, fmt.Errorf("encode productos: %w", err)
	}
	return &conteoRow{
		ID:            c.ID,
		PlantillaID:   c.PlantillaID,
		UsuarioID:     c.UsuarioID,
		Estado:        c.Estado,
		FechaInicio:   c.FechaInicio,
		Productos:     productos,
		ActualizadoEn: time.Now(),
	}, nil
}

func fromRow(r conteoRow) (model.Conteo, error) {
	c := model.Conteo{
		ID:          r.ID,
		PlantillaID: r.PlantillaID,
		UsuarioID:   r.UsuarioID,
		Estado:      r.Estado,
		FechaInicio: r.FechaInicio,
	}
	if len(r.Productos) > 0 {
		if err := json.Unmarshal(r.Productos, &c.Productos); err != nil {
			return c, fmt.Errorf("decode productos: %w", err)
		}
	}
	return c, nil
}

// Reemplazar replaces the whole mirror with a fresh backend listing.
func (s *SQLiteHistorialStore) Reemplazar(ctx context.Context, conteos []model.Conteo) error {
	return s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewDelete().Model((*conteoRow)(nil)).Where("1 = 1").Exec(ctx); err != nil {
			return err
		}
		for _, c := range conteos {
			row, err := toRow(c)
			if err != nil {
				return err
			}
			if _, err := tx.NewInsert().Model(row).Exec(ctx); err != nil {
				return err
			}
		}
		return nil
	})
}

// Guardar upserts a single count.
func (s *SQLiteHistorialStore) Guardar(ctx context.Context, conteo model.Conteo) error {
	row, err := toRow(conteo)
	if err != nil {
		return err
	}
	_, err = s.db.NewInsert().
		Model(row).
		On("CONFLICT (id) DO UPDATE").
		Set("estado = EXCLUDED.estado").
		Set("productos = EXCLUDED.productos").
		Set("actualizado_en = EXCLUDED.actualizado_en").
		Exec(ctx)
	return err
}

// Listar returns the mirrored counts, most recent first.
func (s *SQLiteHistorialStore) Listar(ctx context.Context) ([]model.Conteo, error) {
	var rows []conteoRow
	if err := s.db.NewSelect().Model(&rows).OrderExpr("fecha_inicio DESC, id DESC").Scan(ctx); err != nil {
		return nil, err
	}
	conteos := make([]model.Conteo, 0, len(rows))
	for _, r := range rows {
		c, err := fromRow(r)
		if err != nil {
			return nil, err
		}
		conteos = append(conteos, c)
	}
	return conteos, nil
}
