package i18n

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestTranslator_Translate(t *testing.T) {
	tr := NewTranslator()

	tests := []struct {
		name     string
		key      string
		locale   string
		expected string
	}{
		{
			name:     "spanish notice",
			key:      KeyConteoIniciado,
			locale:   "es",
			expected: "Conteo iniciado correctamente",
		},
		{
			name:     "english notice",
			key:      KeyConteoIniciado,
			locale:   "en",
			expected: "Count started successfully",
		},
		{
			name:     "empty locale falls back to spanish",
			key:      KeyCodigoNoEnPlantilla,
			locale:   "",
			expected: "Este producto no está en la plantilla seleccionada",
		},
		{
			name:     "unknown locale falls back to default",
			key:      ErrKeySinSesion,
			locale:   "de",
			expected: "No hay un conteo en progreso",
		},
		{
			name:     "unknown key returns the key itself",
			key:      "aviso.inexistente",
			locale:   "es",
			expected: "aviso.inexistente",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tr.Translate(tt.key, tt.locale))
		})
	}
}

func TestGetLocale(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name     string
		header   string
		expected string
	}{
		{name: "no header defaults to spanish", header: "", expected: "es"},
		{name: "plain english", header: "en", expected: "en"},
		{name: "regional variant", header: "es-AR,es;q=0.9", expected: "es"},
		{name: "english with quality", header: "en-US,en;q=0.9,es;q=0.8", expected: "en"},
		{name: "unsupported language defaults", header: "fr-FR", expected: "es"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := gin.CreateTestContext(httptest.NewRecorder())
			c.Request = httptest.NewRequest("GET", "/", nil)
			if tt.header != "" {
				c.Request.Header.Set(AcceptLanguageHeader, tt.header)
			}
			assert.Equal(t, tt.expected, GetLocale(c))
		})
	}
}

func TestTranslator_AllKeysPresentInBothLocales(t *testing.T) {
	msgs := getDefaultMessages()
	for key := range msgs["es"] {
		_, ok := msgs["en"][key]
		assert.True(t, ok, "key %q missing in en", key)
	}
	for key := range msgs["en"] {
		_, ok := msgs["es"][key]
		assert.True(t, ok, "key %q missing in es", key)
	}
}
