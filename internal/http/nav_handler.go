package http

import (
	"github.com/gin-gonic/gin"

	"conteo-station/internal/domain/dto"
	"conteo-station/internal/i18n"
	"conteo-station/internal/nav"
)

// NavHandler routes in-app navigation attempts through the exit guard.
type NavHandler struct {
	guard *nav.Guard
}

// NewNavHandler creates the navigation handler.
func NewNavHandler(guard *nav.Guard) *NavHandler {
	return &NavHandler{guard: guard}
}

// Navegar handles POST /api/navegacion. A blocked navigation is still a 200:
// the answer carries the three-way exit choice for the client to present.
func (h *NavHandler) Navegar(c *gin.Context) {
	builder := NewResponseBuilder(c)

	req, err := BuildRequestAndValidate[dto.NavegacionRequest](c)
	if err != nil {
		responderError(builder, err)
		return
	}

	resultado := h.guard.Evaluar(req.Destino)
	if resultado.Permitido {
		builder.SuccessOK(dto.NavegacionResultado{Permitido: true, Destino: resultado.Destino})
		return
	}
	builder.Aviso(dto.NavegacionResultado{
		Permitido: false,
		Destino:   resultado.Destino,
		Opciones:  []string{dto.DecisionContinuar, dto.DecisionPausar, dto.DecisionCancelar},
	}, i18n.KeySaliendoDelConteo)
}

// ResolverSalida handles POST /api/navegacion/resolver.
func (h *NavHandler) ResolverSalida(c *gin.Context) {
	builder := NewResponseBuilder(c)

	req, err := BuildRequestAndValidate[dto.ResolverSalidaRequest](c)
	if err != nil {
		responderError(builder, err)
		return
	}

	var decision nav.Decision
	switch req.Decision {
	case dto.DecisionContinuar:
		decision = nav.DecisionContinuar
	case dto.DecisionPausar:
		decision = nav.DecisionPausar
	case dto.DecisionCancelar:
		decision = nav.DecisionCancelar
	}

	destino, err := h.guard.Resolver(c.Request.Context(), decision)
	if err != nil {
		responderError(builder, err)
		return
	}

	resultado := dto.SalidaResultado{Decision: req.Decision, Destino: destino}
	switch req.Decision {
	case dto.DecisionPausar:
		builder.Aviso(resultado, i18n.KeyConteoPendiente)
	case dto.DecisionCancelar:
		builder.Aviso(resultado, i18n.KeyConteoCancelado)
	default:
		builder.SuccessOK(resultado)
	}
}
