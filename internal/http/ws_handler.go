package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"conteo-station/internal/scan"
)

// EscanerHandler upgrades scanner clients onto the decode feed.
type EscanerHandler struct {
	hub      *scan.Hub
	upgrader websocket.Upgrader
	logger   zerolog.Logger
}

// NewEscanerHandler creates the scanner feed handler. The station serves
// browsers on the warehouse LAN, so cross-origin upgrades are accepted.
func NewEscanerHandler(hub *scan.Hub, logger zerolog.Logger) *EscanerHandler {
	return &EscanerHandler{
		hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		logger: logger,
	}
}

// Feed handles GET /ws/escaner: the client pushes decode and device-failure
// messages and receives resolution broadcasts until it disconnects.
func (h *EscanerHandler) Feed(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn().Err(err).Msg("Scanner feed upgrade failed")
		return
	}
	h.hub.Agregar(conn)
	h.hub.Escuchar(conn)
}
