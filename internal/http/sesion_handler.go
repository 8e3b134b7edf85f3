package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"conteo-station/internal/domain/dto"
	"conteo-station/internal/i18n"
	"conteo-station/internal/nav"
	"conteo-station/internal/service"
	"conteo-station/internal/session"
)

// SesionHandler exposes the count-session lifecycle over HTTP.
type SesionHandler struct {
	controller *session.Controller
	plantillas service.PlantillasService
	historial  service.HistorialService
	guard      *nav.Guard
	logger     zerolog.Logger
}

// NewSesionHandler creates the session handler.
func NewSesionHandler(controller *session.Controller, plantillas service.PlantillasService, historial service.HistorialService, guard *nav.Guard, logger zerolog.Logger) *SesionHandler {
	return &SesionHandler{
		controller: controller,
		plantillas: plantillas,
		historial:  historial,
		guard:      guard,
		logger:     logger,
	}
}

// Plantillas handles GET /api/plantillas.
func (h *SesionHandler) Plantillas(c *gin.Context) {
	builder := NewResponseBuilder(c)

	plantillas, err := h.plantillas.Listar(c.Request.Context())
	if err != nil {
		responderError(builder, err)
		return
	}
	builder.SuccessOK(plantillas)
}

// Iniciar handles POST /api/sesion: resolve the plantilla and start a count
// session against it.
func (h *SesionHandler) Iniciar(c *gin.Context) {
	builder := NewResponseBuilder(c)

	req, err := BuildRequestAndValidate[dto.IniciarSesionRequest](c)
	if err != nil {
		responderError(builder, err)
		return
	}

	plantilla, err := h.plantillas.Buscar(c.Request.Context(), req.PlantillaID)
	if err != nil {
		responderError(builder, err)
		return
	}

	snap, err := h.controller.Iniciar(c.Request.Context(), plantilla)
	if err != nil {
		responderError(builder, err)
		return
	}
	builder.AvisoCreated(dto.NewSesionResponse(&snap.Conteo, snap.Plantilla.Nombre), i18n.KeyConteoIniciado)
}

// Obtener handles GET /api/sesion.
func (h *SesionHandler) Obtener(c *gin.Context) {
	builder := NewResponseBuilder(c)

	snap, err := h.controller.Snapshot()
	if err != nil {
		responderError(builder, err)
		return
	}
	builder.SuccessOK(dto.NewSesionResponse(&snap.Conteo, snap.Plantilla.Nombre))
}

// Restaurar handles POST /api/sesion/restaurar. A missing or stale pointer
// is not an error: the answer carries a notice and a null session.
func (h *SesionHandler) Restaurar(c *gin.Context) {
	builder := NewResponseBuilder(c)

	snap, err := h.controller.Restaurar(c.Request.Context())
	switch {
	case errors.Is(err, session.ErrSinPendiente):
		builder.Aviso(nil, i18n.KeySinConteoPendiente)
	case errors.Is(err, session.ErrPunteroDescartado):
		builder.Aviso(nil, i18n.KeyPunteroDescartado)
	case err != nil:
		responderError(builder, err)
	default:
		builder.Aviso(dto.NewSesionResponse(&snap.Conteo, snap.Plantilla.Nombre), i18n.KeyConteoRestaurado)
	}
}

// ResolverCodigo handles POST /api/sesion/codigo: exact-match a scanned or
// manually entered code against the active session.
func (h *SesionHandler) ResolverCodigo(c *gin.Context) {
	builder := NewResponseBuilder(c)

	req, err := BuildRequestAndValidate[dto.CodigoRequest](c)
	if err != nil {
		responderError(builder, err)
		return
	}

	producto, err := h.controller.ResolverCodigo(req.Codigo)
	if errors.Is(err, session.ErrCodigoNoEnPlantilla) {
		// A condition, not a failure: the operator just scans the next item.
		builder.Aviso(dto.CodigoResolucion{Encontrado: false}, i18n.KeyCodigoNoEnPlantilla)
		return
	}
	if err != nil {
		responderError(builder, err)
		return
	}

	view := dto.NewProductoView(*producto)
	builder.SuccessOK(dto.CodigoResolucion{Encontrado: true, Producto: &view})
}

// RegistrarCantidad handles PUT /api/sesion/productos/:productoId.
func (h *SesionHandler) RegistrarCantidad(c *gin.Context) {
	builder := NewResponseBuilder(c)

	productoID, err := strconv.ParseInt(c.Param("productoId"), 10, 64)
	if err != nil || productoID <= 0 {
		builder.Error(http.StatusBadRequest, i18n.ErrKeyInvalidRequest, err)
		return
	}

	req, err := BuildRequestAndValidate[dto.RegistrarCantidadRequest](c)
	if err != nil {
		responderError(builder, err)
		return
	}

	modo := session.ModoReemplazar
	if req.ModoEfectivo() == dto.ModoAcumular {
		modo = session.ModoAcumular
	}

	producto, err := h.controller.RegistrarCantidad(c.Request.Context(), productoID, *req.CantidadReal, modo)
	if err != nil {
		responderError(builder, err)
		return
	}
	builder.Aviso(dto.NewProductoView(*producto), i18n.KeyCantidadRegistrada)
}

// Finalizar handles POST /api/sesion/finalizar. The explicit confirmation
// flag is required: finalizing is irreversible.
func (h *SesionHandler) Finalizar(c *gin.Context) {
	builder := NewResponseBuilder(c)

	if _, err := BuildRequestAndValidate[dto.FinalizarRequest](c); err != nil {
		responderError(builder, err)
		return
	}

	if err := h.controller.Finalizar(c.Request.Context()); err != nil {
		responderError(builder, err)
		return
	}
	h.guard.Suprimir()

	// Pull the fresh listing into the local mirror while the result is hot.
	if err := h.historial.Refrescar(c.Request.Context()); err != nil {
		h.logger.Warn().Err(err).Msg("Could not refresh historial after finalize")
	}

	builder.Aviso(nil, i18n.KeyConteoFinalizado)
}

// Cancelar handles POST /api/sesion/cancelar.
func (h *SesionHandler) Cancelar(c *gin.Context) {
	builder := NewResponseBuilder(c)

	if err := h.controller.Cancelar(c.Request.Context()); err != nil {
		responderError(builder, err)
		return
	}
	h.guard.Suprimir()
	builder.Aviso(nil, i18n.KeyConteoCancelado)
}

// Pausar handles POST /api/sesion/pausar.
func (h *SesionHandler) Pausar(c *gin.Context) {
	builder := NewResponseBuilder(c)

	if err := h.controller.Pausar(c.Request.Context()); err != nil {
		responderError(builder, err)
		return
	}
	builder.Aviso(nil, i18n.KeyConteoPendiente)
}
