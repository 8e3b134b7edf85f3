// Package i18n provides internationalization support for the counting station.
// It handles translation of operator-facing notices and error messages.
package i18n

import (
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
)

const (
	// DefaultLocale is the default language locale. The counting floor
	// speaks Spanish; English is kept for integrations.
	DefaultLocale = "es"
	// AcceptLanguageHeader is the HTTP header name for language preference.
	AcceptLanguageHeader = "Accept-Language"
)

var (
	defaultTranslator *Translator
	translatorOnce    sync.Once
)

// Translator handles message translation for different locales.
type Translator struct {
	messages map[string]map[string]string
}

// NewTranslator creates a new translator with the default messages.
func NewTranslator() *Translator {
	return &Translator{
		messages: getDefaultMessages(),
	}
}

// GetTranslator returns the default singleton translator instance.
func GetTranslator() *Translator {
	translatorOnce.Do(func() {
		defaultTranslator = NewTranslator()
	})
	return defaultTranslator
}

// Translate returns the translated message for the given key and locale.
// Falls back to DefaultLocale if the locale is not found.
func (t *Translator) Translate(key, locale string) string {
	if locale == "" {
		locale = DefaultLocale
	}

	localeMessages, ok := t.messages[locale]
	if !ok {
		localeMessages = t.messages[DefaultLocale]
	}

	msg, ok := localeMessages[key]
	if !ok {
		if defaultMessages := t.messages[DefaultLocale]; defaultMessages != nil {
			if fallbackMsg, exists := defaultMessages[key]; exists {
				return fallbackMsg
			}
		}
		return key
	}

	return msg
}

// GetLocale extracts the locale from the gin context.
// Checks Accept-Language header and falls back to DefaultLocale.
func GetLocale(c *gin.Context) string {
	acceptLang := c.GetHeader(AcceptLanguageHeader)
	if acceptLang == "" {
		return DefaultLocale
	}

	// Parse Accept-Language header (e.g., "es-AR,es;q=0.9,en;q=0.8")
	parts := strings.Split(acceptLang, ",")
	if len(parts) > 0 {
		lang := strings.TrimSpace(strings.Split(parts[0], ";")[0])
		if idx := strings.Index(lang, "-"); idx > 0 {
			lang = lang[:idx]
		}
		lang = strings.ToLower(lang)
		if _, ok := getDefaultMessages()[lang]; ok {
			return lang
		}
	}

	return DefaultLocale
}

// getDefaultMessages returns the default message translations.
func getDefaultMessages() map[string]map[string]string {
	return map[string]map[string]string{
		"es": {
			// Errores
			"error.invalid_request":         "Solicitud inválida",
			"error.invalid_request_body":    "Cuerpo de la solicitud inválido",
			"error.internal_error":          "Ocurrió un error inesperado",
			"error.unauthorized":            "No autorizado",
			"error.api_key_required":        "Se requiere una clave de API",
			"error.invalid_api_key":         "Clave de API inválida",
			"error.not_found":               "No encontrado",
			"error.rate_limit_exceeded":     "Demasiadas solicitudes, intente nuevamente más tarde",
			"error.sesion_activa":           "Ya hay un conteo en progreso",
			"error.sin_sesion":              "No hay un conteo en progreso",
			"error.transicion_en_curso":     "Hay una operación del conteo en curso, espere un momento",
			"error.plantilla_vacia":         "La plantilla no tiene productos",
			"error.plantilla_no_encontrada": "No se encontró la plantilla",
			"error.producto_no_en_sesion":   "El producto no pertenece al conteo activo",
			"error.iniciar_conteo":          "Error al iniciar el conteo",
			"error.guardar_cantidad":        "Error al guardar la cantidad",
			"error.finalizar_conteo":        "Error al finalizar el conteo",
			"error.cancelar_conteo":         "Error al cancelar el conteo",
			"error.backend_no_disponible":   "No se pudo contactar al sistema de inventario",

			// Avisos
			"aviso.conteo_iniciado":         "Conteo iniciado correctamente",
			"aviso.conteo_restaurado":       "Conteo pendiente restaurado",
			"aviso.cantidad_registrada":     "Cantidad registrada correctamente",
			"aviso.conteo_finalizado":       "Conteo finalizado y guardado en el historial",
			"aviso.conteo_cancelado":        "Conteo cancelado correctamente",
			"aviso.conteo_pendiente":        "Conteo guardado como pendiente",
			"aviso.codigo_no_en_plantilla":  "Este producto no está en la plantilla seleccionada",
			"aviso.puntero_descartado":      "El conteo pendiente ya no está disponible",
			"aviso.sin_conteo_pendiente":    "No hay ningún conteo pendiente",
			"aviso.saliendo_del_conteo":     "Está saliendo del conteo en progreso",

			// Escáner
			"escaner.permiso_denegado": "No se pudo acceder a la cámara. Verifique los permisos.",
			"escaner.no_encontrado":    "No se encontró un dispositivo de escaneo",
			"escaner.ocupado":          "El dispositivo de escaneo está en uso",
			"escaner.falla_generica":   "Error del escáner, use el ingreso manual de códigos",
		},
		"en": {
			// Errors
			"error.invalid_request":         "Invalid request",
			"error.invalid_request_body":    "Invalid request body",
			"error.internal_error":          "An unexpected error occurred",
			"error.unauthorized":            "Unauthorized",
			"error.api_key_required":        "API key is required",
			"error.invalid_api_key":         "Invalid API key",
			"error.not_found":               "Not found",
			"error.rate_limit_exceeded":     "Too many requests, please try again later",
			"error.sesion_activa":           "A count is already in progress",
			"error.sin_sesion":              "No count is in progress",
			"error.transicion_en_curso":     "A count operation is outstanding, try again shortly",
			"error.plantilla_vacia":         "The template has no products",
			"error.plantilla_no_encontrada": "Template not found",
			"error.producto_no_en_sesion":   "The product does not belong to the active count",
			"error.iniciar_conteo":          "Could not start the count",
			"error.guardar_cantidad":        "Could not save the quantity",
			"error.finalizar_conteo":        "Could not finalize the count",
			"error.cancelar_conteo":         "Could not cancel the count",
			"error.backend_no_disponible":   "Could not reach the inventory backend",

			// Notices
			"aviso.conteo_iniciado":        "Count started successfully",
			"aviso.conteo_restaurado":      "Pending count restored",
			"aviso.cantidad_registrada":    "Quantity recorded successfully",
			"aviso.conteo_finalizado":      "Count finalized and saved to history",
			"aviso.conteo_cancelado":       "Count cancelled successfully",
			"aviso.conteo_pendiente":       "Count saved as pending",
			"aviso.codigo_no_en_plantilla": "This product is not part of the selected template",
			"aviso.puntero_descartado":     "The pending count is no longer available",
			"aviso.sin_conteo_pendiente":   "There is no pending count",
			"aviso.saliendo_del_conteo":    "You are leaving a count in progress",

			// Scanner
			"escaner.permiso_denegado": "Could not access the camera. Check permissions.",
			"escaner.no_encontrado":    "No scanning device was found",
			"escaner.ocupado":          "The scanning device is busy",
			"escaner.falla_generica":   "Scanner failure, use manual code entry",
		},
	}
}
