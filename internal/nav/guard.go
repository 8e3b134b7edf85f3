// Package nav implements the navigation guard that protects an active count
// from being abandoned by accident.
//
// While a count is active, any request to navigate away is blocked and the
// operator gets a three-way choice: continue counting, leave the count
// pending, or cancel it outright. The requested destination is parked while
// the choice is open and replayed once the count is out of the way.
package nav

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog"
)

// ErrDecisionInvalida rejects a resolution outside the three known choices.
var ErrDecisionInvalida = errors.New("nav: unknown exit decision")

// Decision is the operator's answer to the exit prompt.
type Decision int

const (
	// DecisionContinuar stays on the count; the parked destination is dropped.
	DecisionContinuar Decision = iota
	// DecisionPausar leaves the count pending and releases the navigation.
	DecisionPausar
	// DecisionCancelar cancels the count and releases the navigation.
	DecisionCancelar
)

// Sesion is the slice of the session controller the guard drives.
type Sesion interface {
	Activa() bool
	Pausar(ctx context.Context) error
	Cancelar(ctx context.Context) error
}

// Resultado is the outcome of evaluating a navigation request.
type Resultado struct {
	// Permitido reports whether the navigation may proceed now.
	Permitido bool
	// Destino echoes the requested destination.
	Destino string
}

// Guard evaluates navigation requests against the session state.
type Guard struct {
	sesion Sesion
	logger zerolog.Logger

	mu        sync.Mutex
	pendiente string
	suprimida bool
}

// NewGuard creates a guard over the given session.
func NewGuard(sesion Sesion, logger zerolog.Logger) *Guard {
	return &Guard{sesion: sesion, logger: logger}
}

// Evaluar decides whether navigating to destino may proceed. With no active
// count the navigation passes through. With an active count the destination
// is parked and the navigation blocked until Resolver is called; evaluating
// again simply re-parks the newest destination.
func (g *Guard) Evaluar(destino string) Resultado {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.suprimida {
		// One-shot pass for the navigation a terminal transition triggered.
		g.suprimida = false
		g.pendiente = ""
		return Resultado{Permitido: true, Destino: destino}
	}
	if !g.sesion.Activa() {
		g.pendiente = ""
		return Resultado{Permitido: true, Destino: destino}
	}

	g.pendiente = destino
	g.logger.Debug().Str("destino", destino).Msg("Navigation blocked by active count")
	return Resultado{Permitido: false, Destino: destino}
}

// Resolver applies the operator's exit decision. Pausar and Cancelar run the
// corresponding session transition first; if it fails the decision is not
// applied and the destination stays parked. The returned destino is the
// parked navigation to replay, empty for DecisionContinuar.
func (g *Guard) Resolver(ctx context.Context, d Decision) (string, error) {
	switch d {
	case DecisionContinuar:
		g.mu.Lock()
		g.pendiente = ""
		g.mu.Unlock()
		return "", nil
	case DecisionPausar:
		if err := g.sesion.Pausar(ctx); err != nil {
			return "", err
		}
	case DecisionCancelar:
		if err := g.sesion.Cancelar(ctx); err != nil {
			return "", err
		}
	default:
		return "", ErrDecisionInvalida
	}

	g.mu.Lock()
	destino := g.pendiente
	g.pendiente = ""
	g.mu.Unlock()

	g.logger.Info().Str("destino", destino).Int("decision", int(d)).Msg("Exit prompt resolved")
	return destino, nil
}

// Suprimir lets the next navigation pass unprompted. Terminal transitions
// call it so the follow-up navigation they trigger is not re-challenged.
func (g *Guard) Suprimir() {
	g.mu.Lock()
	g.suprimida = true
	g.mu.Unlock()
}

// Pendiente returns the currently parked destination, empty when none.
func (g *Guard) Pendiente() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.pendiente
}
