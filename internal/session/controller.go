// Package session owns the single active count: the in-memory mirror of the
// conteo being executed and every transition of its lifecycle.
//
// Client-visible states: NoSession -> Active -> {Finalized, Cancelled,
// Paused}. Paused returns to Active via Restaurar. Finalized and Cancelled
// are absorbing for that count id; a new Iniciar begins an unrelated
// instance.
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"conteo-station/internal/backend"
	"conteo-station/internal/domain/model"
	"conteo-station/internal/metrics"
	"conteo-station/internal/store"
)

// Errors surfaced by controller operations. None of them mutates session
// state: a rejected operation leaves the mirror exactly as it was.
var (
	// ErrSesionActiva rejects starting a count while another is active.
	ErrSesionActiva = errors.New("session: a count is already active")
	// ErrSinSesion rejects operations that need an active count.
	ErrSinSesion = errors.New("session: no active count")
	// ErrTransicionEnCurso rejects a mutation while another one's network
	// call is still outstanding.
	ErrTransicionEnCurso = errors.New("session: a transition is outstanding")
	// ErrPlantillaVacia rejects starting a count from an empty plantilla.
	ErrPlantillaVacia = errors.New("session: plantilla has no products")
	// ErrProductoNoEnSesion rejects recording against an unknown product.
	ErrProductoNoEnSesion = errors.New("session: product not in the active count")
	// ErrCantidadInvalida rejects negative quantities.
	ErrCantidadInvalida = errors.New("session: quantity must be a non-negative integer")
	// ErrCodigoNoEnPlantilla reports a scanned code that does not belong to
	// the active plantilla. A condition, not a failure: retry immediately.
	ErrCodigoNoEnPlantilla = errors.New("session: code not in the plantilla")
	// ErrSinPendiente reports that restore found no pointer to resume.
	ErrSinPendiente = errors.New("session: no pending count to restore")
	// ErrPunteroDescartado reports that restore found a pointer whose count
	// is no longer resumable; the pointer has been deleted.
	ErrPunteroDescartado = errors.New("session: stale session pointer discarded")
)

// ModoActualizacion selects how a recorded quantity combines with a prior
// one for the same product.
type ModoActualizacion int

const (
	// ModoReemplazar replaces the stored quantity.
	ModoReemplazar ModoActualizacion = iota
	// ModoAcumular adds onto the stored quantity.
	ModoAcumular
)

// Snapshot is a detached copy of the active session, safe to use after the
// controller keeps mutating its own mirror.
type Snapshot struct {
	Conteo    model.Conteo
	Plantilla model.Plantilla
}

// Controller mediates every mutation of the active count session.
//
// All remote writes go through first; the local mirror only changes after
// the backend accepted the operation. Competing transitions are rejected
// with ErrTransicionEnCurso while one is outstanding.
type Controller struct {
	backend   backend.Client
	store     store.SessionStore
	historial store.HistorialStore
	logger    zerolog.Logger

	mu        sync.Mutex
	activo    *model.Conteo
	plantilla *model.Plantilla
	ocupado   bool
}

// NewController creates a controller wired to the remote backend and the
// local stores. historial may be nil when no local mirror is kept.
func NewController(cli backend.Client, st store.SessionStore, hist store.HistorialStore, logger zerolog.Logger) *Controller {
	return &Controller{
		backend:   cli,
		store:     st,
		historial: hist,
		logger:    logger,
	}
}

// Activa reports whether a count session is currently open.
func (c *Controller) Activa() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.activo != nil
}

// Snapshot returns a detached copy of the active session.
func (c *Controller) Snapshot() (*Snapshot, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.activo == nil {
		return nil, ErrSinSesion
	}
	return c.snapshotLocked(), nil
}

// snapshotLocked deep-copies the mirror. Callers hold c.mu.
func (c *Controller) snapshotLocked() *Snapshot {
	conteo := *c.activo
	conteo.Productos = make([]model.ProductoConteo, len(c.activo.Productos))
	copy(conteo.Productos, c.activo.Productos)
	for i, p := range c.activo.Productos {
		if p.CantidadReal != nil {
			v := *p.CantidadReal
			conteo.Productos[i].CantidadReal = &v
		}
	}

	plantilla := *c.plantilla
	plantilla.Productos = make([]model.PlantillaProducto, len(c.plantilla.Productos))
	copy(plantilla.Productos, c.plantilla.Productos)

	return &Snapshot{Conteo: conteo, Plantilla: plantilla}
}

// begin gates a mutating operation. needSession requires an active count,
// forbidActive requires none.
func (c *Controller) begin(needSession, forbidActive bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.ocupado {
		return ErrTransicionEnCurso
	}
	if needSession && c.activo == nil {
		return ErrSinSesion
	}
	if forbidActive && c.activo != nil {
		return ErrSesionActiva
	}
	c.ocupado = true
	return nil
}

func (c *Controller) end() {
	c.mu.Lock()
	c.ocupado = false
	c.mu.Unlock()
}

// Iniciar starts a count session for the plantilla: the count is created
// remotely, fetched back fully hydrated, mirrored locally and the session
// pointer persisted. On any failure no local state is mutated.
func (c *Controller) Iniciar(ctx context.Context, plantilla *model.Plantilla) (*Snapshot, error) {
	if plantilla == nil || plantilla.Vacia() {
		return nil, ErrPlantillaVacia
	}
	if err := c.begin(false, true); err != nil {
		return nil, err
	}
	defer c.end()

	creado, err := c.backend.CrearConteo(ctx, plantilla.ID)
	if err != nil {
		metrics.RecordSessionTransition("iniciar", "error")
		return nil, err
	}
	conteo, err := c.backend.Conteo(ctx, creado.ID)
	if err != nil {
		metrics.RecordSessionTransition("iniciar", "error")
		return nil, err
	}

	c.mu.Lock()
	c.activo = conteo
	c.plantilla = clonePlantilla(plantilla)
	snap := c.snapshotLocked()
	c.mu.Unlock()

	if err := c.store.Guardar(ctx, store.Puntero{ConteoID: conteo.ID, PlantillaID: plantilla.ID}); err != nil {
		// The session stays usable; it just will not survive a restart.
		c.logger.Warn().Err(err).Int64("conteo_id", conteo.ID).Msg("Could not persist session pointer")
	}

	metrics.RecordSessionTransition("iniciar", "success")
	c.logger.Info().
		Int64("conteo_id", conteo.ID).
		Int64("plantilla_id", plantilla.ID).
		Int("productos", len(conteo.Productos)).
		Msg("Count session started")
	return snap, nil
}

// Restaurar resumes a paused or interrupted count from the session pointer.
//
// A pointer whose count is gone, no longer en_progreso, or whose plantilla
// cannot be resolved is deleted and ErrPunteroDescartado returned; that
// prevents resuming a count finalized or deleted from elsewhere. Calling
// Restaurar with a session already active returns the current session
// unchanged, so back-to-back restores are idempotent.
func (c *Controller) Restaurar(ctx context.Context) (*Snapshot, error) {
	c.mu.Lock()
	if c.activo != nil {
		snap := c.snapshotLocked()
		c.mu.Unlock()
		return snap, nil
	}
	if c.ocupado {
		c.mu.Unlock()
		return nil, ErrTransicionEnCurso
	}
	c.ocupado = true
	c.mu.Unlock()
	defer c.end()

	p, err := c.store.Leer(ctx)
	if errors.Is(err, store.ErrSinPuntero) {
		return nil, ErrSinPendiente
	}
	if err != nil {
		return nil, err
	}

	conteo, err := c.backend.Conteo(ctx, p.ConteoID)
	if isNotFound(err) {
		return nil, c.descartarPuntero(ctx, p)
	}
	if err != nil {
		return nil, err
	}
	if !conteo.EnProgreso() {
		return nil, c.descartarPuntero(ctx, p)
	}

	plantilla, err := c.backend.Plantilla(ctx, p.PlantillaID)
	if isNotFound(err) {
		return nil, c.descartarPuntero(ctx, p)
	}
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.activo = conteo
	c.plantilla = plantilla
	snap := c.snapshotLocked()
	c.mu.Unlock()

	metrics.RecordSessionTransition("restaurar", "success")
	c.logger.Info().
		Int64("conteo_id", conteo.ID).
		Int64("plantilla_id", plantilla.ID).
		Msg("Count session restored")
	return snap, nil
}

// descartarPuntero deletes a stale pointer instead of retrying it.
func (c *Controller) descartarPuntero(ctx context.Context, p *store.Puntero) error {
	if err := c.store.Borrar(ctx); err != nil {
		c.logger.Warn().Err(err).Msg("Could not delete stale session pointer")
	}
	metrics.RecordSessionTransition("restaurar", "descartado")
	c.logger.Info().
		Int64("conteo_id", p.ConteoID).
		Msg("Stale session pointer discarded")
	return ErrPunteroDescartado
}

// ResolverCodigo matches a scanned or manually entered code against the
// active session's entry set by exact equality. It never mutates state; an
// unmatched code can be retried immediately.
func (c *Controller) ResolverCodigo(codigo string) (*model.ProductoConteo, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.activo == nil {
		return nil, ErrSinSesion
	}
	p := c.activo.ProductoPorCodigo(codigo)
	if p == nil {
		metrics.RecordScanResolution("no_en_plantilla")
		return nil, ErrCodigoNoEnPlantilla
	}
	metrics.RecordScanResolution("encontrado")
	entry := *p
	return &entry, nil
}

// RegistrarCantidad records the physically counted quantity for one product
// of the active count: write-through to the backend first, then the local
// entry is updated. In ModoAcumular the submitted quantity is added onto the
// stored one; an uncounted product accumulates from zero.
func (c *Controller) RegistrarCantidad(ctx context.Context, productoID int64, cantidad int, modo ModoActualizacion) (*model.ProductoConteo, error) {
	if cantidad < 0 {
		return nil, ErrCantidadInvalida
	}
	if err := c.begin(true, false); err != nil {
		return nil, err
	}
	defer c.end()

	c.mu.Lock()
	entrada := c.activo.Producto(productoID)
	if entrada == nil {
		c.mu.Unlock()
		return nil, ErrProductoNoEnSesion
	}
	efectiva := cantidad
	if modo == ModoAcumular && entrada.CantidadReal != nil {
		efectiva += *entrada.CantidadReal
	}
	conteoID := c.activo.ID
	c.mu.Unlock()

	if err := c.backend.ActualizarCantidad(ctx, conteoID, productoID, efectiva); err != nil {
		return nil, err
	}

	c.mu.Lock()
	entrada = c.activo.Producto(productoID)
	entrada.CantidadReal = &efectiva
	actualizado := *entrada
	v := efectiva
	actualizado.CantidadReal = &v
	c.mu.Unlock()

	c.logger.Debug().
		Int64("conteo_id", conteoID).
		Int64("producto_id", productoID).
		Int("cantidad", efectiva).
		Msg("Quantity recorded")
	return &actualizado, nil
}

// Finalizar marks the count terminal remotely, clears the session pointer
// and the local mirror, and writes the closed count into the local
// historial mirror.
func (c *Controller) Finalizar(ctx context.Context) error {
	if err := c.begin(true, false); err != nil {
		return err
	}
	defer c.end()

	c.mu.Lock()
	conteoID := c.activo.ID
	c.mu.Unlock()

	if err := c.backend.FinalizarConteo(ctx, conteoID); err != nil {
		metrics.RecordSessionTransition("finalizar", "error")
		return err
	}

	c.mu.Lock()
	cerrado := *c.activo
	cerrado.Estado = model.EstadoFinalizado
	c.activo = nil
	c.plantilla = nil
	c.mu.Unlock()

	if err := c.store.Borrar(ctx); err != nil {
		c.logger.Warn().Err(err).Msg("Could not delete session pointer after finalize")
	}
	if c.historial != nil {
		if err := c.historial.Guardar(ctx, cerrado); err != nil {
			c.logger.Warn().Err(err).Msg("Could not mirror finalized count locally")
		}
	}

	metrics.RecordSessionTransition("finalizar", "success")
	c.logger.Info().Int64("conteo_id", conteoID).Msg("Count finalized")
	return nil
}

// Cancelar deletes the count remotely and clears both the session pointer
// and the local mirror.
func (c *Controller) Cancelar(ctx context.Context) error {
	if err := c.begin(true, false); err != nil {
		return err
	}
	defer c.end()

	c.mu.Lock()
	conteoID := c.activo.ID
	c.mu.Unlock()

	if err := c.backend.EliminarConteo(ctx, conteoID); err != nil {
		metrics.RecordSessionTransition("cancelar", "error")
		return err
	}

	c.mu.Lock()
	c.activo = nil
	c.plantilla = nil
	c.mu.Unlock()

	if err := c.store.Borrar(ctx); err != nil {
		c.logger.Warn().Err(err).Msg("Could not delete session pointer after cancel")
	}

	metrics.RecordSessionTransition("cancelar", "success")
	c.logger.Info().Int64("conteo_id", conteoID).Msg("Count cancelled")
	return nil
}

// Pausar clears the local mirror and leaves both the remote count and the
// session pointer untouched, so Restaurar can pick the count up later.
func (c *Controller) Pausar(ctx context.Context) error {
	if err := c.begin(true, false); err != nil {
		return err
	}
	defer c.end()

	c.mu.Lock()
	conteoID := c.activo.ID
	c.activo = nil
	c.plantilla = nil
	c.mu.Unlock()

	metrics.RecordSessionTransition("pausar", "success")
	c.logger.Info().Int64("conteo_id", conteoID).Msg("Count left pending")
	return nil
}

// CancelarMejorEsfuerzo attempts to delete the active count with a short
// deadline during shutdown. Delivery is not guaranteed and nothing depends
// on it: a surviving count is caught as a stale pointer on the next restore.
func (c *Controller) CancelarMejorEsfuerzo(timeout time.Duration) {
	c.mu.Lock()
	if c.activo == nil {
		c.mu.Unlock()
		return
	}
	conteoID := c.activo.ID
	c.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := c.backend.EliminarConteo(ctx, conteoID); err != nil {
		c.logger.Warn().Err(err).Int64("conteo_id", conteoID).Msg("Best-effort cancel on shutdown failed")
		return
	}
	c.logger.Info().Int64("conteo_id", conteoID).Msg("Best-effort cancel on shutdown delivered")
}

// isNotFound reports whether the backend answered 404 for the request.
func isNotFound(err error) bool {
	var apiErr *backend.APIError
	return errors.As(err, &apiErr) && apiErr.Status == 404
}

func clonePlantilla(p *model.Plantilla) *model.Plantilla {
	cp := *p
	cp.Productos = make([]model.PlantillaProducto, len(p.Productos))
	copy(cp.Productos, p.Productos)
	return &cp
}
