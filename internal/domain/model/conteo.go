// Package model defines the core domain entities for the counting station.
package model

import "time"

// Estados reported by the backend for a conteo.
const (
	// EstadoEnProgreso marks a count that can still be resumed and mutated.
	EstadoEnProgreso = "en_progreso"
	// EstadoFinalizado marks a count that has been closed into the historial.
	EstadoFinalizado = "finalizado"
)

// Diferencias holds the derived discrepancy values for a counted product.
// They are always recomputed from the quantities, never stored.
type Diferencias struct {
	// Faltante is how far the physical count falls below system stock.
	Faltante int `json:"faltante"`
	// Sobrante is how far the physical count exceeds system stock.
	Sobrante int `json:"sobrante"`
	// Pedido is the desired quantity minus the physical count.
	Pedido int `json:"pedido"`
}

// CalcularDiferencias derives faltante, sobrante and pedido from the desired,
// counted and system quantities. Faltante and sobrante are mutually
// exclusive: at most one of them is positive.
func CalcularDiferencias(deseada, real, sistema int) Diferencias {
	d := Diferencias{Pedido: deseada - real}
	if real < sistema {
		d.Faltante = sistema - real
	}
	if real > sistema {
		d.Sobrante = real - sistema
	}
	return d
}

// ProductoConteo is one product line within a count.
//
// CantidadReal is nil until the product has been physically counted.
type ProductoConteo struct {
	ProductoID      int64  `json:"producto_id"`
	Codigo          string `json:"codigo"`
	Nombre          string `json:"nombre"`
	CantidadDeseada int    `json:"cantidad_deseada"`
	CantidadSistema int    `json:"cantidad_sistema"`
	CantidadReal    *int   `json:"cantidad_real"`
}

// Contado reports whether the product has been counted.
func (p ProductoConteo) Contado() bool {
	return p.CantidadReal != nil
}

// Diferencias returns the derived discrepancy values for the product.
// An uncounted product has no discrepancies.
func (p ProductoConteo) Diferencias() Diferencias {
	if p.CantidadReal == nil {
		return Diferencias{}
	}
	return CalcularDiferencias(p.CantidadDeseada, *p.CantidadReal, p.CantidadSistema)
}

// Conteo is one execution instance of a plantilla, tracking the physically
// counted quantities against system stock.
type Conteo struct {
	ID          int64            `json:"id"`
	PlantillaID int64            `json:"plantilla_id"`
	UsuarioID   int64            `json:"usuario_id"`
	Estado      string           `json:"estado"`
	FechaInicio time.Time        `json:"fecha_inicio"`
	Productos   []ProductoConteo `json:"productos"`
}

// EnProgreso reports whether the count can still be resumed.
func (c *Conteo) EnProgreso() bool {
	return c.Estado == EstadoEnProgreso
}

// Producto returns the entry for the given product id, or nil when the
// product is not part of the count.
func (c *Conteo) Producto(productoID int64) *ProductoConteo {
	for i := range c.Productos {
		if c.Productos[i].ProductoID == productoID {
			return &c.Productos[i]
		}
	}
	return nil
}

// ProductoPorCodigo resolves a scanned or manually entered code against the
// count's entry set by exact equality. Returns nil when the code does not
// belong to the plantilla.
func (c *Conteo) ProductoPorCodigo(codigo string) *ProductoConteo {
	for i := range c.Productos {
		if c.Productos[i].Codigo == codigo {
			return &c.Productos[i]
		}
	}
	return nil
}

// Contados returns the number of counted products.
func (c *Conteo) Contados() int {
	n := 0
	for i := range c.Productos {
		if c.Productos[i].Contado() {
			n++
		}
	}
	return n
}

// Progreso returns the completion percentage, 0 for an empty entry set.
func (c *Conteo) Progreso() float64 {
	if len(c.Productos) == 0 {
		return 0
	}
	return float64(c.Contados()) / float64(len(c.Productos)) * 100
}
