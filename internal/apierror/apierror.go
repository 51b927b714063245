// Package apierror provides the coded error taxonomy for the domain core and
// the standardized error response structures for the API. All errors returned
// to clients go through this package to ensure consistency and to prevent
// leaking internal details (stack traces, DB errors, etc.).
package apierror

import (
	"errors"
	"fmt"
	"net/http"
)

// Code identifies a domain failure class. Codes are stable and machine-readable;
// messages are for humans and may change.
type Code string

const (
	CodeStockInsuficiente  Code = "STOCK_INSUFICIENTE"
	CodeNoEncontrado       Code = "NO_ENCONTRADO"
	CodeSolicitudInvalida  Code = "SOLICITUD_INVALIDA"
	CodeTransicionInvalida Code = "TRANSICION_INVALIDA"
	CodeSaldoPendiente     Code = "SALDO_PENDIENTE"
	CodeMontoInvalido      Code = "MONTO_INVALIDO"
	CodeCajaYaAbierta      Code = "CAJA_YA_ABIERTA"
	CodeCajaYaCerrada      Code = "CAJA_YA_CERRADA"
	CodeConflicto          Code = "CONFLICTO"
	CodeInterno            Code = "INTERNO"
)

// Error is a domain error with a stable code. Services return *Error for every
// validation failure; the error middleware maps Code → HTTP status.
type Error struct {
	Code    Code   `json:"code"`
	Message string `json:"detail"`
}

func (e *Error) Error() string { return e.Message }

// New builds a coded domain error.
func New(code Code, msg string) *Error {
	return &Error{Code: code, Message: msg}
}

// Newf builds a coded domain error with fmt-style formatting.
func Newf(code Code, format string, args ...interface{}) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// AsError extracts a *Error from err's chain, or nil.
func AsError(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return nil
}

// HTTPStatus maps a code to its HTTP response status.
func (c Code) HTTPStatus() int {
	switch c {
	case CodeStockInsuficiente, CodeConflicto, CodeCajaYaAbierta, CodeCajaYaCerrada:
		return http.StatusConflict
	case CodeNoEncontrado:
		return http.StatusNotFound
	case CodeSolicitudInvalida, CodeMontoInvalido, CodeSaldoPendiente:
		return http.StatusBadRequest
	case CodeTransicionInvalida:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// APIError is the canonical error envelope for all 4xx/5xx HTTP responses.
type APIError struct {
	Code   Code   `json:"code,omitempty"`
	Detail string `json:"detail"`
}

// Envelope converts any error into the response envelope. Coded domain errors
// keep their code; everything else becomes an opaque internal error.
func Envelope(err error) (int, *APIError) {
	if e := AsError(err); e != nil {
		return e.Code.HTTPStatus(), &APIError{Code: e.Code, Detail: e.Message}
	}
	return http.StatusInternalServerError, &APIError{Code: CodeInterno, Detail: "Error interno del servidor"}
}

// Plain builds an uncoded envelope, for transport-level failures (bad JSON,
// auth) that never reach the domain.
func Plain(msg string) *APIError {
	return &APIError{Detail: msg}
}

// Validation wraps multiple field errors.
type ValidationError struct {
	Detail string            `json:"detail"`
	Fields map[string]string `json:"fields"`
}

func NewValidation(fields map[string]string) *ValidationError {
	return &ValidationError{Detail: "Error de validacion", Fields: fields}
}
