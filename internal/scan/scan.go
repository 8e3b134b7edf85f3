// Package scan provides the scanner input feed for the counting station.
//
// Scanner devices (handheld guns, camera kiosks) connect over a websocket
// and push decoded codes; the station resolves each code against the active
// count and answers on the same feed. Device failures are classified into
// operator guidance and are never fatal: manual code entry over the plain
// API is always available.
package scan

import (
	"context"
	"time"

	"conteo-station/internal/i18n"
)

// Evento is one decode event pushed by a scanner device.
type Evento struct {
	// Codigo is the decoded product code.
	Codigo string
	// Dispositivo identifies the device that produced the decode.
	Dispositivo string
	// Recibido is when the station received the event.
	Recibido time.Time
}

// Restricciones narrow a subscription to the decode stream.
type Restricciones struct {
	// Dispositivo limits the stream to one device; empty accepts all.
	Dispositivo string
}

// Source is a swappable provider of decode events.
type Source interface {
	// Start subscribes to decode events under the given restrictions. The
	// returned channel closes when the source stops or ctx is done.
	Start(ctx context.Context, r Restricciones) (<-chan Evento, error)
	// Stop tears the subscription down.
	Stop() error
}

// Device failure identifiers reported by scanner clients. Camera-based
// clients forward the platform error names verbatim.
const (
	fallaPermisoDenegado = "NotAllowedError"
	fallaNoEncontrado    = "NotFoundError"
	fallaOcupado         = "NotReadableError"
)

// ClasificarFalla maps a device failure identifier to the guidance key shown
// to the operator. Unknown identifiers get the generic guidance.
func ClasificarFalla(id string) string {
	switch id {
	case fallaPermisoDenegado, "permiso_denegado":
		return i18n.KeyEscanerPermisoDenegado
	case fallaNoEncontrado, "no_encontrado":
		return i18n.KeyEscanerNoEncontrado
	case fallaOcupado, "ocupado":
		return i18n.KeyEscanerOcupado
	default:
		return i18n.KeyEscanerFallaGenerica
	}
}
