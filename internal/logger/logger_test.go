package logger

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestInitSetsLevel(t *testing.T) {
	tests := []struct {
		level string
		want  zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"info", zerolog.InfoLevel},
		{"warn", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"unknown", zerolog.InfoLevel},
	}
	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			Init(tt.level, false)
			assert.Equal(t, tt.want, zerolog.GlobalLevel())
		})
	}
}

func TestComponente(t *testing.T) {
	Init("info", false)
	l := Componente("session")
	// The tagged logger must still be usable.
	l.Info().Msg("componente listo")
	assert.NotNil(t, l)
}
