package scan

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"conteo-station/internal/domain/model"
	"conteo-station/internal/i18n"
	"conteo-station/internal/session"
)

// Resolutor is the slice of the session controller the processor needs.
type Resolutor interface {
	ResolverCodigo(codigo string) (*model.ProductoConteo, error)
}

// Difusor pushes resolution results back to the connected scanner clients.
type Difusor interface {
	Difundir(v interface{})
}

// ResolucionMensaje is the answer broadcast for each decode event.
type ResolucionMensaje struct {
	Tipo        string                `json:"tipo"`
	Codigo      string                `json:"codigo"`
	Dispositivo string                `json:"dispositivo,omitempty"`
	Encontrado  bool                  `json:"encontrado"`
	Producto    *model.ProductoConteo `json:"producto,omitempty"`
	Mensaje     string                `json:"mensaje,omitempty"`
}

// Procesador drains the decode stream, resolves each code against the
// active count and broadcasts the outcome. Failures never stop the loop.
type Procesador struct {
	source    Source
	resolutor Resolutor
	difusor   Difusor
	traductor *i18n.Translator
	logger    zerolog.Logger
}

// NewProcesador wires a processor over a decode source.
func NewProcesador(source Source, resolutor Resolutor, difusor Difusor, traductor *i18n.Translator, logger zerolog.Logger) *Procesador {
	return &Procesador{
		source:    source,
		resolutor: resolutor,
		difusor:   difusor,
		traductor: traductor,
		logger:    logger,
	}
}

// Run processes decode events until ctx is done.
func (p *Procesador) Run(ctx context.Context) error {
	eventos, err := p.source.Start(ctx, Restricciones{})
	if err != nil {
		return err
	}
	defer func() { _ = p.source.Stop() }()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-eventos:
			if !ok {
				return nil
			}
			p.procesar(ev)
		}
	}
}

func (p *Procesador) procesar(ev Evento) {
	producto, err := p.resolutor.ResolverCodigo(ev.Codigo)
	msg := ResolucionMensaje{
		Tipo:        "resolucion",
		Codigo:      ev.Codigo,
		Dispositivo: ev.Dispositivo,
	}

	switch {
	case err == nil:
		msg.Encontrado = true
		msg.Producto = producto
	case errors.Is(err, session.ErrCodigoNoEnPlantilla):
		msg.Mensaje = p.traductor.Translate(i18n.KeyCodigoNoEnPlantilla, i18n.DefaultLocale)
	case errors.Is(err, session.ErrSinSesion):
		msg.Mensaje = p.traductor.Translate(i18n.ErrKeySinSesion, i18n.DefaultLocale)
	default:
		p.logger.Warn().Err(err).Str("codigo", ev.Codigo).Msg("Could not resolve scanned code")
		msg.Mensaje = p.traductor.Translate(i18n.KeyEscanerFallaGenerica, i18n.DefaultLocale)
	}

	p.difusor.Difundir(msg)
}

// DifundirGuias drains classified device-failure keys and broadcasts the
// translated operator guidance until ctx is done.
func DifundirGuias(ctx context.Context, fallas <-chan string, difusor Difusor, traductor *i18n.Translator) {
	for {
		select {
		case <-ctx.Done():
			return
		case clave := <-fallas:
			difusor.Difundir(GuiaMensaje{
				Tipo:    "guia",
				Clave:   clave,
				Mensaje: traductor.Translate(clave, i18n.DefaultLocale),
			})
		}
	}
}
