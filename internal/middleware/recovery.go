package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"conteo-station/internal/domain/dto"
	"conteo-station/internal/i18n"
	"conteo-station/internal/logger"
)

// Recovery returns a middleware that recovers from panics and answers 500.
// The panic is logged with the request ID; a count in progress survives the
// failed request untouched.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				requestID := GetRequestID(c)
				log := logger.Logger()
				log.Error().
					Str("request_id", requestID).
					Interface("panic", err).
					Msg("PANIC recovered")

				locale := i18n.GetLocale(c)
				message := i18n.GetTranslator().Translate(i18n.ErrKeyInternalError, locale)
				c.AbortWithStatusJSON(http.StatusInternalServerError,
					dto.NewError(dto.ErrCodeInternal, message).WithRequestID(requestID))
			}
		}()
		c.Next()
	}
}
