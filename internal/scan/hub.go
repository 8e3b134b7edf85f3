package scan

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"conteo-station/internal/metrics"
)

// mensajeEntrante is what a scanner client pushes over the feed.
type mensajeEntrante struct {
	Tipo        string `json:"tipo"`
	Codigo      string `json:"codigo,omitempty"`
	Dispositivo string `json:"dispositivo,omitempty"`
	Falla       string `json:"falla,omitempty"`
}

// GuiaMensaje is the guidance pushed back after a classified device failure.
type GuiaMensaje struct {
	Tipo    string `json:"tipo"`
	Clave   string `json:"clave"`
	Mensaje string `json:"mensaje"`
}

// Hub fans decode events from connected scanner clients into a single
// stream and broadcasts resolution results back to every client.
type Hub struct {
	logger  zerolog.Logger
	eventos chan Evento
	fallas  chan string

	mu      sync.RWMutex
	clients map[*websocket.Conn]bool
}

// NewHub creates a hub with a buffered event stream. A full buffer drops
// the oldest pressure point by rejecting the new event rather than blocking
// the reader.
func NewHub(buffer int, logger zerolog.Logger) *Hub {
	if buffer <= 0 {
		buffer = 16
	}
	return &Hub{
		logger:  logger,
		eventos: make(chan Evento, buffer),
		fallas:  make(chan string, buffer),
		clients: make(map[*websocket.Conn]bool),
	}
}

// Agregar registers a scanner client connection.
func (h *Hub) Agregar(conn *websocket.Conn) {
	h.mu.Lock()
	h.clients[conn] = true
	n := len(h.clients)
	h.mu.Unlock()
	metrics.ScannerClientsConnected.Set(float64(n))
	h.logger.Info().Int("clients", n).Msg("Scanner client connected")
}

// Quitar deregisters and closes a scanner client connection.
func (h *Hub) Quitar(conn *websocket.Conn) {
	h.mu.Lock()
	if _, ok := h.clients[conn]; ok {
		delete(h.clients, conn)
		_ = conn.Close()
	}
	n := len(h.clients)
	h.mu.Unlock()
	metrics.ScannerClientsConnected.Set(float64(n))
	h.logger.Info().Int("clients", n).Msg("Scanner client disconnected")
}

// Escuchar reads messages from one client until the connection drops.
// Decode messages feed the event stream; failure reports are classified and
// surfaced as guidance. Malformed messages are logged and skipped.
func (h *Hub) Escuchar(conn *websocket.Conn) {
	defer h.Quitar(conn)
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}

		var msg mensajeEntrante
		if err := json.Unmarshal(data, &msg); err != nil {
			h.logger.Warn().Err(err).Msg("Discarding malformed scanner message")
			continue
		}

		switch msg.Tipo {
		case "codigo":
			if msg.Codigo == "" {
				continue
			}
			h.publicar(Evento{
				Codigo:      msg.Codigo,
				Dispositivo: msg.Dispositivo,
				Recibido:    time.Now(),
			})
		case "falla":
			clave := ClasificarFalla(msg.Falla)
			h.logger.Warn().
				Str("dispositivo", msg.Dispositivo).
				Str("falla", msg.Falla).
				Str("guia", clave).
				Msg("Scanner device failure reported")
			select {
			case h.fallas <- clave:
			default:
			}
		default:
			h.logger.Debug().Str("tipo", msg.Tipo).Msg("Ignoring unknown scanner message type")
		}
	}
}

// publicar enqueues a decode event, dropping it when the stream is saturated.
func (h *Hub) publicar(ev Evento) {
	select {
	case h.eventos <- ev:
	default:
		h.logger.Warn().Str("codigo", ev.Codigo).Msg("Decode stream saturated, event dropped")
	}
}

// Difundir sends a JSON message to every connected client. Clients whose
// write fails are dropped.
func (h *Hub) Difundir(v interface{}) {
	data, err := json.Marshal(v)
	if err != nil {
		h.logger.Error().Err(err).Msg("Could not encode broadcast message")
		return
	}

	h.mu.RLock()
	conns := make([]*websocket.Conn, 0, len(h.clients))
	for conn := range h.clients {
		conns = append(conns, conn)
	}
	h.mu.RUnlock()

	for _, conn := range conns {
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			h.Quitar(conn)
		}
	}
}

// Eventos exposes the merged decode stream.
func (h *Hub) Eventos() <-chan Evento { return h.eventos }

// Fallas exposes classified device-failure guidance keys.
func (h *Hub) Fallas() <-chan string { return h.fallas }

// Clientes returns the number of connected scanner clients.
func (h *Hub) Clientes() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
