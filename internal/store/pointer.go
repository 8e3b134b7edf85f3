package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/uptrace/bun"
)

// ErrSinPuntero is returned when no session pointer is stored.
var ErrSinPuntero = errors.New("store: no session pointer")

// Puntero is the minimal on-device record needed to resume an interrupted
// count: which count, against which plantilla.
type Puntero struct {
	ConteoID    int64
	PlantillaID int64
}

// punteroRow is the sqlite representation of the session pointer. A single
// row (id=1) holds the pointer; absence of the row means no pointer.
type punteroRow struct {
	bun.BaseModel `bun:"table:puntero_sesion,alias:ps"`

	ID          int64     `bun:"id,pk"`
	ConteoID    int64     `bun:"conteo_id,notnull"`
	PlantillaID int64     `bun:"plantilla_id,notnull"`
	GuardadoEn  time.Time `bun:"guardado_en,notnull"`
}

// SessionStore persists the session pointer across process restarts.
//
// Write on every transition into Active, delete on finalize and cancel,
// retain on pause and on uncontrolled termination. That asymmetry is the
// resumability contract.
type SessionStore interface {
	// Guardar writes the pointer, replacing any previous one.
	Guardar(ctx context.Context, p Puntero) error
	// Leer returns the stored pointer or ErrSinPuntero.
	Leer(ctx context.Context) (*Puntero, error)
	// Borrar deletes the pointer. Deleting an absent pointer is not an error.
	Borrar(ctx context.Context) error
}

// SQLiteSessionStore implements SessionStore on the station's sqlite file.
type SQLiteSessionStore struct {
	db *bun.DB
}

// NewSQLiteSessionStore creates a session store over an open database.
func NewSQLiteSessionStore(db *bun.DB) *SQLiteSessionStore {
	return &SQLiteSessionStore{db: db}
}

// Guardar writes the pointer, replacing any previous one.
func (s *SQLiteSessionStore) Guardar(ctx context.Context, p Puntero) error {
	row := &punteroRow{
		ID:          1,
		ConteoID:    p.ConteoID,
		PlantillaID: p.PlantillaID,
		GuardadoEn:  time.Now(),
	}
	_, err := s.db.NewInsert().
		Model(row).
		On("CONFLICT (id) DO UPDATE").
		Set("conteo_id = EXCLUDED.conteo_id").
		Set("plantilla_id = EXCLUDED.plantilla_id").
		Set("guardado_en = EXCLUDED.guardado_en").
		Exec(ctx)
	return err
}

// Leer returns the stored pointer or ErrSinPuntero.
func (s *SQLiteSessionStore) Leer(ctx context.Context) (*Puntero, error) {
	var row punteroRow
	err := s.db.NewSelect().Model(&row).Where("id = 1").Limit(1).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSinPuntero
	}
	if err != nil {
		return nil, err
	}
	return &Puntero{ConteoID: row.ConteoID, PlantillaID: row.PlantillaID}, nil
}

// Borrar deletes the pointer. Deleting an absent pointer is not an error.
func (s *SQLiteSessionStore) Borrar(ctx context.Context) error {
	_, err := s.db.NewDelete().Model((*punteroRow)(nil)).Where("id = 1").Exec(ctx)
	return err
}
