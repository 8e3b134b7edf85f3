package dto

import (
	"time"

	"conteo-station/internal/domain/model"
)

// ProductoView is the API projection of one count entry, with the derived
// discrepancy values already computed.
type ProductoView struct {
	ProductoID      int64  `json:"producto_id"`
	Codigo          string `json:"codigo"`
	Nombre          string `json:"nombre"`
	CantidadDeseada int    `json:"cantidad_deseada"`
	CantidadSistema int    `json:"cantidad_sistema"`
	CantidadReal    *int   `json:"cantidad_real"`
	Contado         bool   `json:"contado"`
	Faltante        int    `json:"faltante"`
	Sobrante        int    `json:"sobrante"`
	Pedido          int    `json:"pedido"`
}

// NewProductoView builds the projection for a single entry.
func NewProductoView(p model.ProductoConteo) ProductoView {
	d := p.Diferencias()
	return ProductoView{
		ProductoID:      p.ProductoID,
		Codigo:          p.Codigo,
		Nombre:          p.Nombre,
		CantidadDeseada: p.CantidadDeseada,
		CantidadSistema: p.CantidadSistema,
		CantidadReal:    p.CantidadReal,
		Contado:         p.Contado(),
		Faltante:        d.Faltante,
		Sobrante:        d.Sobrante,
		Pedido:          d.Pedido,
	}
}

// SesionResponse is the snapshot of the active count session.
type SesionResponse struct {
	ConteoID        int64          `json:"conteo_id"`
	PlantillaID     int64          `json:"plantilla_id"`
	PlantillaNombre string         `json:"plantilla_nombre"`
	Estado          string         `json:"estado"`
	FechaInicio     time.Time      `json:"fecha_inicio"`
	Contados        int            `json:"contados"`
	Total           int            `json:"total"`
	Progreso        float64        `json:"progreso"`
	Productos       []ProductoView `json:"productos"`
}

// NewSesionResponse builds the session snapshot from the in-memory mirror.
func NewSesionResponse(conteo *model.Conteo, plantillaNombre string) SesionResponse {
	productos := make([]ProductoView, 0, len(conteo.Productos))
	for _, p := range conteo.Productos {
		productos = append(productos, NewProductoView(p))
	}
	return SesionResponse{
		ConteoID:        conteo.ID,
		PlantillaID:     conteo.PlantillaID,
		PlantillaNombre: plantillaNombre,
		Estado:          conteo.Estado,
		FechaInicio:     conteo.FechaInicio,
		Contados:        conteo.Contados(),
		Total:           len(conteo.Productos),
		Progreso:        conteo.Progreso(),
		Productos:       productos,
	}
}

// CodigoResolucion is the outcome of resolving a scanned or manual code
// against the active session. An unmatched code is a condition, not an
// error: the caller may retry immediately.
type CodigoResolucion struct {
	Encontrado bool          `json:"encontrado"`
	Producto   *ProductoView `json:"producto,omitempty"`
}

// ConteoResumen is one row of the historial listing.
type ConteoResumen struct {
	ID          int64     `json:"id"`
	PlantillaID int64     `json:"plantilla_id"`
	Estado      string    `json:"estado"`
	FechaInicio time.Time `json:"fecha_inicio"`
	Contados    int       `json:"contados"`
	Total       int       `json:"total"`
}

// NewConteoResumen builds the listing row for a count.
func NewConteoResumen(c model.Conteo) ConteoResumen {
	return ConteoResumen{
		ID:          c.ID,
		PlantillaID: c.PlantillaID,
		Estado:      c.Estado,
		FechaInicio: c.FechaInicio,
		Contados:    c.Contados(),
		Total:       len(c.Productos),
	}
}

// HistorialResponse lists past counts. DesdeLocal flags that the listing was
// served from the station's offline mirror because the backend was down.
type HistorialResponse struct {
	Conteos    []ConteoResumen `json:"conteos"`
	DesdeLocal bool            `json:"desde_local"`
}

// NavegacionResultado answers a guarded navigation attempt. When the
// navigation is suppressed, Opciones lists the three-way exit choice.
type NavegacionResultado struct {
	Permitido bool     `json:"permitido"`
	Destino   string   `json:"destino"`
	Opciones  []string `json:"opciones,omitempty"`
}

// SalidaResultado reports how an exit prompt was resolved and which
// destination, if any, was completed afterwards.
type SalidaResultado struct {
	Decision string `json:"decision"`
	Destino  string `json:"destino,omitempty"`
}
