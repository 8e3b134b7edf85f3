package model

import "time"

// PlantillaProducto is one product line of a plantilla with its desired
// stock quantity and the system stock the backend reported alongside it.
type PlantillaProducto struct {
	ProductoID      int64  `json:"producto_id"`
	Codigo          string `json:"codigo"`
	Nombre          string `json:"nombre"`
	CantidadDeseada int    `json:"cantidad_deseada"`
	CantidadSistema int    `json:"cantidad_sistema"`
}

// Plantilla is a reusable, named checklist of products to count.
// It is owned by the backend and immutable while a count references it.
type Plantilla struct {
	ID          int64               `json:"id"`
	Nombre      string              `json:"nombre"`
	Descripcion string              `json:"descripcion"`
	Productos   []PlantillaProducto `json:"productos"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
}

// Vacia reports whether the plantilla has no products. An empty plantilla
// cannot start a count.
func (p *Plantilla) Vacia() bool {
	return len(p.Productos) == 0
}
