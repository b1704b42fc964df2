// Package http provides HTTP server and handler implementations.
//
// This file implements the Builder Pattern for constructing JSON responses
// and the mapping from service errors to status codes.

package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"financas/internal/export"
	applog "financas/internal/log"
	"financas/internal/services"
	"financas/internal/session"
	"financas/internal/store"
)

// Messages returned to API clients.
const (
	msgUnauthorized   = "Não autenticado"
	msgNotFound       = "Registro não encontrado"
	msgInternal       = "Erro interno"
	msgRateLimited    = "Muitas requisições. Tente novamente em instantes."
	msgInvalidBody    = "Formato da requisição inválido"
	msgInvalidID      = "ID inválido"
	msgInvalidFormat  = "Formato de exportação inválido"
	msgMethodNotAllow = "Método não permitido"
)

// JSONResponseBuilder provides a fluent API for building JSON responses.
type JSONResponseBuilder struct {
	statusCode int
	body       any
	headers    map[string]string
}

// NewJSONResponse creates a new response builder with default 200 status.
func NewJSONResponse() *JSONResponseBuilder {
	return &JSONResponseBuilder{
		statusCode: http.StatusOK,
		headers:    make(map[string]string),
	}
}

func (b *JSONResponseBuilder) Status(code int) *JSONResponseBuilder {
	b.statusCode = code
	return b
}

func (b *JSONResponseBuilder) Header(name, value string) *JSONResponseBuilder {
	b.headers[name] = value
	return b
}

// Body sets the value encoded as the response body.
func (b *JSONResponseBuilder) Body(v any) *JSONResponseBuilder {
	b.body = v
	return b
}

// Write sends the built response. A 204 carries no body.
func (b *JSONResponseBuilder) Write(w http.ResponseWriter) {
	for name, value := range b.headers {
		w.Header().Set(name, value)
	}
	if b.statusCode == http.StatusNoContent || b.body == nil {
		w.WriteHeader(b.statusCode)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(b.statusCode)
	_ = json.NewEncoder(w).Encode(b.body)
}

type errorBody struct {
	Error string `json:"error"`
}

// ErrorResponse creates a {"error": message} response.
func ErrorResponse(statusCode int, message string) *JSONResponseBuilder {
	return NewJSONResponse().Status(statusCode).Body(errorBody{Error: message})
}

func BadRequestError(message string) *JSONResponseBuilder {
	return ErrorResponse(http.StatusBadRequest, message)
}

func UnauthorizedError() *JSONResponseBuilder {
	return ErrorResponse(http.StatusUnauthorized, msgUnauthorized).
		Header("WWW-Authenticate", `Bearer realm="financas"`)
}

func NotFoundError(message string) *JSONResponseBuilder {
	return ErrorResponse(http.StatusNotFound, message)
}

func UnprocessableEntityError(message string) *JSONResponseBuilder {
	return ErrorResponse(http.StatusUnprocessableEntity, message)
}

func TooManyRequestsError() *JSONResponseBuilder {
	return ErrorResponse(http.StatusTooManyRequests, msgRateLimited).Header("Retry-After", "60")
}

func InternalServerError() *JSONResponseBuilder {
	return ErrorResponse(http.StatusInternalServerError, msgInternal)
}

// MethodNotAllowedError creates a 405 response listing the allowed methods.
func MethodNotAllowedError(allowedMethods string) *JSONResponseBuilder {
	return ErrorResponse(http.StatusMethodNotAllowed, msgMethodNotAllow).Header("Allow", allowedMethods)
}

// requestError is a malformed request: bad JSON, a bad path id or a field
// of the wrong shape.
type requestError struct {
	message string
	err     error
}

func (e *requestError) Error() string { return e.message }

func (e *requestError) Unwrap() error { return e.err }

func badRequest(message string, err error) error {
	return &requestError{message: message, err: err}
}

// errorResponseFor maps an error from parsing or from a service call to its
// response. Unknown errors are logged and hidden behind a 500.
func errorResponseFor(ctx context.Context, err error) *JSONResponseBuilder {
	var reqErr *requestError
	var valErr *services.ValidationError
	switch {
	case errors.As(err, &reqErr):
		return BadRequestError(reqErr.message)
	case errors.As(err, &valErr):
		return UnprocessableEntityError(valErr.Message)
	case errors.Is(err, store.ErrNotFound):
		return NotFoundError(msgNotFound)
	case errors.Is(err, session.ErrNoSession),
		errors.Is(err, session.ErrMissingToken),
		errors.Is(err, session.ErrInvalidToken):
		return UnauthorizedError()
	case errors.Is(err, export.ErrUnknownFormat):
		return BadRequestError(msgInvalidFormat)
	}
	applog.FromContext(ctx).ErrorContext(ctx, "Request failed", "error", err)
	return InternalServerError()
}

// writeError writes the response errorResponseFor picks for err.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	errorResponseFor(r.Context(), err).Write(w)
}
