package common

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrNotFound            = errors.New("requested resource not found")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrUnauthorized        = errors.New("unauthorized access")
	ErrBadRequest          = errors.New("bad request")
	ErrConflict            = errors.New("resource conflict") // e.g., username already exists
	ErrValidation          = errors.New("validation failed")
	ErrUpstreamUnavailable = errors.New("catalog upstream unavailable")
)

// Public, client-facing messages. Login failures of every kind share MsgLoginFailed.
const (
	MsgLoginFailed         = "Usuario o contraseña inválidos"
	MsgUserNotFound        = "Usuario no encontrado"
	MsgValidation          = "Datos de usuario inválidos"
	MsgConflict            = "El nombre de usuario ya existe"
	MsgUpstreamUnavailable = "Error al obtener productos del catálogo"
	MsgProductNotFound     = "Producto no encontrado"
	MsgBadRequest          = "Solicitud inválida"
	MsgUnauthorized        = "Token de autorización inválido o ausente"
	MsgInternal            = "Ocurrió un error interno"
	MsgMethodNotAllowed    = "Las mutaciones requieren POST"
)

// HTTPStatusFromError maps domain errors to HTTP status codes.
func HTTPStatusFromError(err error) int {
	if err == nil {
		return http.StatusOK
	}
	// Login failures may also wrap ErrNotFound; they must stay indistinguishable.
	if errors.Is(err, ErrUnauthorized) || errors.Is(err, ErrInvalidCredentials) {
		return http.StatusUnauthorized
	}
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrBadRequest) || errors.Is(err, ErrValidation) {
		return http.StatusBadRequest
	}
	if errors.Is(err, ErrConflict) {
		return http.StatusConflict
	}
	if errors.Is(err, ErrUpstreamUnavailable) {
		return http.StatusInternalServerError
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // unique_violation
			return http.StatusConflict
		case "23502": // not_null_violation
			return http.StatusBadRequest
		}
	}

	return http.StatusInternalServerError
}

// PublicMessage returns the Spanish message shown to API clients for err.
// Internal details never leak through it.
func PublicMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInvalidCredentials):
		return MsgLoginFailed
	case errors.Is(err, ErrNotFound):
		return MsgUserNotFound
	case errors.Is(err, ErrValidation):
		return MsgValidation
	case errors.Is(err, ErrConflict):
		return MsgConflict
	case errors.Is(err, ErrUpstreamUnavailable):
		return MsgUpstreamUnavailable
	case errors.Is(err, ErrBadRequest):
		return MsgBadRequest
	case errors.Is(err, ErrUnauthorized):
		return MsgUnauthorized
	}
	return MsgInternal
}

// Errorf creates a new error with formatting, useful for wrapping.
func Errorf(format string, args ...interface{}) error {
	return fmt.Errorf(format, args...)
}
