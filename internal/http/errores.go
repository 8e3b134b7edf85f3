package http

import (
	"errors"
	"net/http"

	"conteo-station/internal/backend"
	"conteo-station/internal/domain/dto"
	"conteo-station/internal/i18n"
	"conteo-station/internal/nav"
	"conteo-station/internal/service"
	"conteo-station/internal/session"
)

// responderError maps domain errors onto the station's error contract.
//
// Session preconditions answer 409 so clients can tell "retry later" apart
// from "you asked for something that is not there" (404). Backend failures
// answer 502 with the server-supplied message when one was given, 503 when
// the backend could not be reached at all.
func responderError(b *ResponseBuilder, err error) {
	var validationErr *dto.ValidationError
	if errors.As(err, &validationErr) {
		b.ErrorWithMessage(http.StatusBadRequest, validationErr.Error(), err)
		return
	}
	var bindErr *BindError
	if errors.As(err, &bindErr) {
		b.Error(http.StatusBadRequest, i18n.ErrKeyInvalidRequestBody, err)
		return
	}

	switch {
	case errors.Is(err, session.ErrSesionActiva):
		b.Error(http.StatusConflict, i18n.ErrKeySesionActiva, err)
	case errors.Is(err, session.ErrTransicionEnCurso):
		b.Error(http.StatusConflict, i18n.ErrKeyTransicionEnCurso, err)
	case errors.Is(err, session.ErrSinSesion):
		b.Error(http.StatusNotFound, i18n.ErrKeySinSesion, err)
	case errors.Is(err, session.ErrPlantillaVacia):
		b.Error(http.StatusBadRequest, i18n.ErrKeyPlantillaVacia, err)
	case errors.Is(err, session.ErrProductoNoEnSesion):
		b.Error(http.StatusNotFound, i18n.ErrKeyProductoNoEnSesion, err)
	case errors.Is(err, session.ErrCantidadInvalida):
		b.Error(http.StatusBadRequest, i18n.ErrKeyInvalidRequest, err)
	case errors.Is(err, service.ErrPlantillaNoEncontrada):
		b.Error(http.StatusNotFound, i18n.ErrKeyPlantillaNoEncontrada, err)
	case errors.Is(err, service.ErrConteoNoEncontrado):
		b.Error(http.StatusNotFound, i18n.ErrKeyNotFound, err)
	case errors.Is(err, nav.ErrDecisionInvalida):
		b.Error(http.StatusBadRequest, i18n.ErrKeyInvalidRequest, err)
	case errors.Is(err, backend.ErrNoAutorizado):
		b.Error(http.StatusBadGateway, i18n.ErrKeyBackendNoDisponible, err)
	default:
		var apiErr *backend.APIError
		if errors.As(err, &apiErr) {
			if apiErr.Message != "" {
				b.ErrorWithMessage(http.StatusBadGateway, apiErr.Message, err)
				return
			}
			b.Error(http.StatusBadGateway, i18n.ErrKeyBackendNoDisponible, err)
			return
		}
		b.Error(http.StatusServiceUnavailable, i18n.ErrKeyBackendNoDisponible, err)
	}
}
