// Package dto defines Data Transfer Objects for HTTP request and response handling.
//
// DTOs decouple the HTTP layer from the domain model, providing validation
// and serialization for the station API.
package dto

// Update modes accepted when recording a quantity for an already-counted
// product. The choice is a UI policy, not a property of the data model.
const (
	// ModoReemplazar replaces the stored quantity with the submitted one.
	ModoReemplazar = "reemplazar"
	// ModoAcumular adds the submitted quantity onto the stored one.
	ModoAcumular = "acumular"
)

// Exit decisions for a guarded navigation attempt.
const (
	DecisionContinuar = "continuar"
	DecisionPausar    = "pausar"
	DecisionCancelar  = "cancelar"
)

// ValidationError represents a field validation error.
type ValidationError struct {
	Field   string
	Message string
}

// Error returns the error message for ValidationError.
func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

var (
	// ErrInvalidPlantillaID is returned when plantilla_id is missing or invalid.
	ErrInvalidPlantillaID = &ValidationError{
		Field:   "plantilla_id",
		Message: "must be a positive integer",
	}

	// ErrInvalidCantidadReal is returned when cantidad_real is missing or negative.
	ErrInvalidCantidadReal = &ValidationError{
		Field:   "cantidad_real",
		Message: "must be a non-negative integer",
	}

	// ErrInvalidModo is returned when modo is not a known update mode.
	ErrInvalidModo = &ValidationError{
		Field:   "modo",
		Message: "must be 'reemplazar' or 'acumular'",
	}

	// ErrInvalidCodigo is returned when codigo is empty.
	ErrInvalidCodigo = &ValidationError{
		Field:   "codigo",
		Message: "must not be empty",
	}

	// ErrConfirmacionRequerida is returned when finalize is requested without
	// the explicit confirmation flag.
	ErrConfirmacionRequerida = &ValidationError{
		Field:   "confirmar",
		Message: "finalizing is irreversible and must be confirmed",
	}

	// ErrInvalidDestino is returned when a navigation attempt has no destination.
	ErrInvalidDestino = &ValidationError{
		Field:   "destino",
		Message: "must not be empty",
	}

	// ErrInvalidDecision is returned when an exit decision is not recognized.
	ErrInvalidDecision = &ValidationError{
		Field:   "decision",
		Message: "must be 'continuar', 'pausar' or 'cancelar'",
	}
)

// IniciarSesionRequest starts a count session for a plantilla.
type IniciarSesionRequest struct {
	PlantillaID int64 `json:"plantilla_id" binding:"required,gt=0"`
}

// Validate performs custom validation on the request.
func (r *IniciarSesionRequest) Validate() error {
	if r.PlantillaID <= 0 {
		return ErrInvalidPlantillaID
	}
	return nil
}

// CodigoRequest resolves a scanned or manually entered product code.
type CodigoRequest struct {
	Codigo string `json:"codigo" binding:"required"`
}

// Validate performs custom validation on the request.
func (r *CodigoRequest) Validate() error {
	if r.Codigo == "" {
		return ErrInvalidCodigo
	}
	return nil
}

// RegistrarCantidadRequest records the physically counted quantity for one
// product of the active session.
//
// CantidadReal is a pointer so that an explicit zero survives binding.
type RegistrarCantidadRequest struct {
	CantidadReal *int   `json:"cantidad_real" binding:"required"`
	Modo         string `json:"modo"`
}

// Validate performs custom validation on the request. An absent modo
// defaults to replacement, matching the original quantity dialog.
func (r *RegistrarCantidadRequest) Validate() error {
	if r.CantidadReal == nil || *r.CantidadReal < 0 {
		return ErrInvalidCantidadReal
	}
	switch r.Modo {
	case "", ModoReemplazar, ModoAcumular:
		return nil
	default:
		return ErrInvalidModo
	}
}

// ModoEfectivo returns the update mode to apply, defaulting to replacement.
func (r *RegistrarCantidadRequest) ModoEfectivo() string {
	if r.Modo == ModoAcumular {
		return ModoAcumular
	}
	return ModoReemplazar
}

// FinalizarRequest closes the active session into the historial.
type FinalizarRequest struct {
	Confirmar bool `json:"confirmar"`
}

// Validate requires the explicit confirmation flag.
func (r *FinalizarRequest) Validate() error {
	if !r.Confirmar {
		return ErrConfirmacionRequerida
	}
	return nil
}

// NavegacionRequest is an in-app navigation attempt routed through the
// exit guard.
type NavegacionRequest struct {
	Destino string `json:"destino" binding:"required"`
}

// Validate performs custom validation on the request.
func (r *NavegacionRequest) Validate() error {
	if r.Destino == "" {
		return ErrInvalidDestino
	}
	return nil
}

// ResolverSalidaRequest answers the three-way exit prompt.
type ResolverSalidaRequest struct {
	Decision string `json:"decision" binding:"required"`
}

// Validate performs custom validation on the request.
func (r *ResolverSalidaRequest) Validate() error {
	switch r.Decision {
	case DecisionContinuar, DecisionPausar, DecisionCancelar:
		return nil
	default:
		return ErrInvalidDecision
	}
}
