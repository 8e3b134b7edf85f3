// Package http provides the station's HTTP surface: handlers, router and
// response envelope for the counting clients on the local network.
package http

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"conteo-station/internal/domain/dto"
	"conteo-station/internal/i18n"
	"conteo-station/internal/middleware"
)

// Response DTO pools for reducing allocations.
var (
	successResponsePool = sync.Pool{
		New: func() interface{} {
			return &dto.SuccessResponse{}
		},
	}

	errorResponsePool = sync.Pool{
		New: func() interface{} {
			return &dto.ErrorResponse{}
		},
	}
)

func getSuccessResponse() *dto.SuccessResponse {
	if resp, ok := successResponsePool.Get().(*dto.SuccessResponse); ok {
		return resp
	}
	return &dto.SuccessResponse{}
}

func putSuccessResponse(resp *dto.SuccessResponse) {
	resp.Data = nil
	resp.Message = ""
	resp.RequestID = ""
	resp.Timestamp = time.Time{}
	successResponsePool.Put(resp)
}

func getErrorResponse() *dto.ErrorResponse {
	if resp, ok := errorResponsePool.Get().(*dto.ErrorResponse); ok {
		return resp
	}
	return &dto.ErrorResponse{}
}

func putErrorResponse(resp *dto.ErrorResponse) {
	resp.Error = ""
	resp.Message = ""
	resp.RequestID = ""
	resp.Timestamp = time.Time{}
	resp.Details = nil
	errorResponsePool.Put(resp)
}

// ResponseBuilder assembles the station's enveloped responses. Pooled DTOs
// keep per-request allocations down; gin serializes synchronously so the
// DTO can be returned to the pool right after c.JSON.
type ResponseBuilder struct {
	c *gin.Context
}

// NewResponseBuilder creates a new response builder for the given context.
func NewResponseBuilder(c *gin.Context) *ResponseBuilder {
	return &ResponseBuilder{c: c}
}

// Success sends a successful response with the given data.
func (b *ResponseBuilder) Success(statusCode int, data interface{}) {
	b.respond(statusCode, data, "")
}

// SuccessOK sends a 200 OK response with the given data.
func (b *ResponseBuilder) SuccessOK(data interface{}) {
	b.respond(http.StatusOK, data, "")
}

// SuccessCreated sends a 201 Created response with the given data.
func (b *ResponseBuilder) SuccessCreated(data interface{}) {
	b.respond(http.StatusCreated, data, "")
}

// Aviso sends a 200 OK response carrying a localized operator notice along
// with the data, mirroring the transient notifications of the counting UI.
func (b *ResponseBuilder) Aviso(data interface{}, messageKey string) {
	locale := i18n.GetLocale(b.c)
	b.respond(http.StatusOK, data, i18n.GetTranslator().Translate(messageKey, locale))
}

// AvisoCreated sends a 201 Created response with a localized notice.
func (b *ResponseBuilder) AvisoCreated(data interface{}, messageKey string) {
	locale := i18n.GetLocale(b.c)
	b.respond(http.StatusCreated, data, i18n.GetTranslator().Translate(messageKey, locale))
}

func (b *ResponseBuilder) respond(statusCode int, data interface{}, message string) {
	resp := getSuccessResponse()
	resp.Data = data
	resp.Message = message
	resp.RequestID = middleware.GetRequestID(b.c)
	resp.Timestamp = time.Now()

	b.c.JSON(statusCode, resp)
	putSuccessResponse(resp)
}

// Error sends an error response with the given status code and message key.
func (b *ResponseBuilder) Error(statusCode int, messageKey string, err error) {
	locale := i18n.GetLocale(b.c)
	b.fail(statusCode, i18n.GetTranslator().Translate(messageKey, locale), err)
}

// ErrorWithMessage sends an error response with a custom message, used to
// surface server-supplied backend messages untranslated.
func (b *ResponseBuilder) ErrorWithMessage(statusCode int, message string, err error) {
	b.fail(statusCode, message, err)
}

func (b *ResponseBuilder) fail(statusCode int, message string, err error) {
	resp := getErrorResponse()
	resp.Error = dto.ErrCodeFromStatus(statusCode)
	resp.Message = message
	resp.RequestID = middleware.GetRequestID(b.c)
	resp.Timestamp = time.Now()

	if err != nil {
		_ = b.c.Error(err)
	}

	b.c.AbortWithStatusJSON(statusCode, resp)
	putErrorResponse(resp)
}

// Validator interface for request types that can validate themselves.
type Validator interface {
	Validate() error
}

// BindError marks a request body that could not be bound, so the error
// mapping answers 400 instead of treating it as a backend failure.
type BindError struct {
	Err error
}

// Error returns the underlying binding error message.
func (e *BindError) Error() string { return e.Err.Error() }

// Unwrap exposes the underlying binding error.
func (e *BindError) Unwrap() error { return e.Err }

// BuildRequestAndValidate binds the JSON body into T and runs its
// validation when it implements Validator.
func BuildRequestAndValidate[T any](c *gin.Context) (*T, error) {
	var req T
	if err := c.ShouldBindJSON(&req); err != nil {
		return nil, &BindError{Err: err}
	}
	if validator, ok := any(&req).(Validator); ok {
		if err := validator.Validate(); err != nil {
			return nil, err
		}
	}
	return &req, nil
}
