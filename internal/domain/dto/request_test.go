package dto

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func intPtr(v int) *int { return &v }

func TestIniciarSesionRequest_Validate(t *testing.T) {
	assert.NoError(t, (&IniciarSesionRequest{PlantillaID: 1}).Validate())
	assert.ErrorIs(t, (&IniciarSesionRequest{}).Validate(), ErrInvalidPlantillaID)
	assert.ErrorIs(t, (&IniciarSesionRequest{PlantillaID: -3}).Validate(), ErrInvalidPlantillaID)
}

func TestRegistrarCantidadRequest_Validate(t *testing.T) {
	tests := []struct {
		name    string
		req     RegistrarCantidadRequest
		wantErr error
	}{
		{
			name: "zero quantity is valid",
			req:  RegistrarCantidadRequest{CantidadReal: intPtr(0)},
		},
		{
			name: "explicit replace mode",
			req:  RegistrarCantidadRequest{CantidadReal: intPtr(5), Modo: ModoReemplazar},
		},
		{
			name: "accumulate mode",
			req:  RegistrarCantidadRequest{CantidadReal: intPtr(5), Modo: ModoAcumular},
		},
		{
			name:    "missing quantity",
			req:     RegistrarCantidadRequest{},
			wantErr: ErrInvalidCantidadReal,
		},
		{
			name:    "negative quantity",
			req:     RegistrarCantidadRequest{CantidadReal: intPtr(-1)},
			wantErr: ErrInvalidCantidadReal,
		},
		{
			name:    "unknown mode",
			req:     RegistrarCantidadRequest{CantidadReal: intPtr(5), Modo: "sumar"},
			wantErr: ErrInvalidModo,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestRegistrarCantidadRequest_ModoEfectivo(t *testing.T) {
	assert.Equal(t, ModoReemplazar, (&RegistrarCantidadRequest{}).ModoEfectivo())
	assert.Equal(t, ModoReemplazar, (&RegistrarCantidadRequest{Modo: ModoReemplazar}).ModoEfectivo())
	assert.Equal(t, ModoAcumular, (&RegistrarCantidadRequest{Modo: ModoAcumular}).ModoEfectivo())
}

func TestFinalizarRequest_Validate(t *testing.T) {
	assert.ErrorIs(t, (&FinalizarRequest{}).Validate(), ErrConfirmacionRequerida)
	assert.NoError(t, (&FinalizarRequest{Confirmar: true}).Validate())
}

func TestResolverSalidaRequest_Validate(t *testing.T) {
	for _, d := range []string{DecisionContinuar, DecisionPausar, DecisionCancelar} {
		assert.NoError(t, (&ResolverSalidaRequest{Decision: d}).Validate())
	}
	assert.ErrorIs(t, (&ResolverSalidaRequest{Decision: "salir"}).Validate(), ErrInvalidDecision)
	assert.ErrorIs(t, (&ResolverSalidaRequest{}).Validate(), ErrInvalidDecision)
}

func TestCodigoRequest_Validate(t *testing.T) {
	assert.NoError(t, (&CodigoRequest{Codigo: "ABC"}).Validate())
	assert.ErrorIs(t, (&CodigoRequest{}).Validate(), ErrInvalidCodigo)
}
