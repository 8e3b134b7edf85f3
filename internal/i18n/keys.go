// Package i18n provides internationalization support for the counting station.
package i18n

// Error message translation keys.
const (
	// ErrKeyInvalidRequest indicates an invalid request.
	ErrKeyInvalidRequest = "error.invalid_request"
	// ErrKeyInvalidRequestBody indicates an invalid request body.
	ErrKeyInvalidRequestBody = "error.invalid_request_body"
	// ErrKeyInternalError indicates an internal server error.
	ErrKeyInternalError = "error.internal_error"
	// ErrKeyUnauthorized indicates missing or invalid authentication.
	ErrKeyUnauthorized = "error.unauthorized"
	// ErrKeyAPIKeyRequired indicates that an API key is required.
	ErrKeyAPIKeyRequired = "error.api_key_required"
	// ErrKeyInvalidAPIKey indicates an invalid API key.
	ErrKeyInvalidAPIKey = "error.invalid_api_key"
	// ErrKeyNotFound indicates a resource was not found.
	ErrKeyNotFound = "error.not_found"
	// ErrKeyRateLimitExceeded indicates rate limit exceeded.
	ErrKeyRateLimitExceeded = "error.rate_limit_exceeded"

	// ErrKeySesionActiva indicates a count session is already active.
	ErrKeySesionActiva = "error.sesion_activa"
	// ErrKeySinSesion indicates no count session is active.
	ErrKeySinSesion = "error.sin_sesion"
	// ErrKeyTransicionEnCurso indicates another session transition is outstanding.
	ErrKeyTransicionEnCurso = "error.transicion_en_curso"
	// ErrKeyPlantillaVacia indicates the selected plantilla has no products.
	ErrKeyPlantillaVacia = "error.plantilla_vacia"
	// ErrKeyPlantillaNoEncontrada indicates the plantilla could not be resolved.
	ErrKeyPlantillaNoEncontrada = "error.plantilla_no_encontrada"
	// ErrKeyProductoNoEnSesion indicates the product is not part of the session.
	ErrKeyProductoNoEnSesion = "error.producto_no_en_sesion"
	// ErrKeyIniciarConteo indicates the count could not be started.
	ErrKeyIniciarConteo = "error.iniciar_conteo"
	// ErrKeyGuardarCantidad indicates the quantity could not be saved.
	ErrKeyGuardarCantidad = "error.guardar_cantidad"
	// ErrKeyFinalizarConteo indicates the count could not be finalized.
	ErrKeyFinalizarConteo = "error.finalizar_conteo"
	// ErrKeyCancelarConteo indicates the count could not be cancelled.
	ErrKeyCancelarConteo = "error.cancelar_conteo"
	// ErrKeyBackendNoDisponible indicates the inventory backend is unreachable.
	ErrKeyBackendNoDisponible = "error.backend_no_disponible"
)

// Notice message translation keys for operator-facing notifications.
const (
	// KeyConteoIniciado confirms a count session started.
	KeyConteoIniciado = "aviso.conteo_iniciado"
	// KeyConteoRestaurado confirms a paused count session was restored.
	KeyConteoRestaurado = "aviso.conteo_restaurado"
	// KeyCantidadRegistrada confirms a counted quantity was saved.
	KeyCantidadRegistrada = "aviso.cantidad_registrada"
	// KeyConteoFinalizado confirms a count was closed into the historial.
	KeyConteoFinalizado = "aviso.conteo_finalizado"
	// KeyConteoCancelado confirms a count was deleted.
	KeyConteoCancelado = "aviso.conteo_cancelado"
	// KeyConteoPendiente confirms a count was left pending for later resume.
	KeyConteoPendiente = "aviso.conteo_pendiente"
	// KeyCodigoNoEnPlantilla warns that a scanned code is not in the plantilla.
	KeyCodigoNoEnPlantilla = "aviso.codigo_no_en_plantilla"
	// KeyPunteroDescartado informs that a stale session pointer was discarded.
	KeyPunteroDescartado = "aviso.puntero_descartado"
	// KeySinConteoPendiente informs that there is nothing to restore.
	KeySinConteoPendiente = "aviso.sin_conteo_pendiente"
	// KeySaliendoDelConteo prompts the three-way exit choice.
	KeySaliendoDelConteo = "aviso.saliendo_del_conteo"
)

// Scanner guidance translation keys, one per classified device failure.
const (
	// KeyEscanerPermisoDenegado guides on camera/scanner permission denial.
	KeyEscanerPermisoDenegado = "escaner.permiso_denegado"
	// KeyEscanerNoEncontrado guides when no scanning device is present.
	KeyEscanerNoEncontrado = "escaner.no_encontrado"
	// KeyEscanerOcupado guides when the device is held by another consumer.
	KeyEscanerOcupado = "escaner.ocupado"
	// KeyEscanerFallaGenerica is the fallback scanner guidance.
	KeyEscanerFallaGenerica = "escaner.falla_generica"
)
