package http

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"conteo-station/internal/domain/dto"
	"conteo-station/internal/i18n"
	"conteo-station/internal/report"
	"conteo-station/internal/service"
)

// HistorialHandler serves the listing of past counts and their printable
// discrepancy reports.
type HistorialHandler struct {
	historial  service.HistorialService
	plantillas service.PlantillasService
	logger     zerolog.Logger
}

// NewHistorialHandler creates the historial handler.
func NewHistorialHandler(historial service.HistorialService, plantillas service.PlantillasService, logger zerolog.Logger) *HistorialHandler {
	return &HistorialHandler{historial: historial, plantillas: plantillas, logger: logger}
}

// Listar handles GET /api/conteos.
func (h *HistorialHandler) Listar(c *gin.Context) {
	builder := NewResponseBuilder(c)

	conteos, desdeLocal, err := h.historial.Listar(c.Request.Context())
	if err != nil {
		responderError(builder, err)
		return
	}

	resumenes := make([]dto.ConteoResumen, 0, len(conteos))
	for _, conteo := range conteos {
		resumenes = append(resumenes, dto.NewConteoResumen(conteo))
	}
	builder.SuccessOK(dto.HistorialResponse{Conteos: resumenes, DesdeLocal: desdeLocal})
}

// Reporte handles GET /api/conteos/:id/reporte, answering the rendered PDF.
func (h *HistorialHandler) Reporte(c *gin.Context) {
	builder := NewResponseBuilder(c)

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		builder.Error(http.StatusBadRequest, i18n.ErrKeyInvalidRequest, err)
		return
	}

	conteo, err := h.historial.Buscar(c.Request.Context(), id)
	if err != nil {
		responderError(builder, err)
		return
	}

	// The plantilla name is cosmetic on the report; render without it when
	// the lookup fails.
	plantillaNombre := ""
	if plantilla, err := h.plantillas.Buscar(c.Request.Context(), conteo.PlantillaID); err == nil {
		plantillaNombre = plantilla.Nombre
	} else {
		h.logger.Warn().Err(err).Int64("plantilla_id", conteo.PlantillaID).Msg("Could not resolve plantilla name for report")
	}

	pdf, err := report.GenerarReporteConteo(*conteo, plantillaNombre, time.Now())
	if err != nil {
		builder.Error(http.StatusInternalServerError, i18n.ErrKeyInternalError, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=conteo-%d.pdf", conteo.ID))
	c.Data(http.StatusOK, "application/pdf", pdf)
}
