package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// AppError es el error estándar de la capa HTTP.
// Next es el paso al que el cliente debe volver; vacío si no aplica.
type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	Detail     string `json:"detail,omitempty"`
	Next       string `json:"next,omitempty"`
	HTTPStatus int    `json:"-"`
	Err        error  `json:"-"` // causa, sólo para logs
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error { return e.Err }

// FromError convierte cualquier error en *AppError. Lo que no es AppError
// se reporta como error interno conservando la causa.
func FromError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return ErrInternalServerError.WithCause(err)
}

// WithDetail devuelve una copia con detalle.
func (e *AppError) WithDetail(detail string) *AppError {
	cp := *e
	cp.Detail = detail
	return &cp
}

// WithCause devuelve una copia con la causa.
func (e *AppError) WithCause(err error) *AppError {
	cp := *e
	cp.Err = err
	return &cp
}

// WithNext devuelve una copia apuntando a otro paso.
func (e *AppError) WithNext(next string) *AppError {
	cp := *e
	cp.Next = next
	return &cp
}

// WithMessage devuelve una copia con otro mensaje visible.
func (e *AppError) WithMessage(msg string) *AppError {
	cp := *e
	cp.Message = msg
	return &cp
}

// Pasos del flujo, usados como Next.
const (
	StepIndex   = "/"
	StepLogin   = "/login"
	StepRequest = "/recuperar_contrasena"
	StepVerify  = "/verificar_codigo"
	StepReset   = "/reset_contrasena"
)

// ---------------------------------------------------------------------------------
// Genéricos
// ---------------------------------------------------------------------------------

var (
	ErrBadRequest = &AppError{
		Code:       "BAD_REQUEST",
		Message:    "La solicitud contiene sintaxis inválida o parámetros faltantes.",
		HTTPStatus: http.StatusBadRequest,
	}

	ErrInvalidJSON = &AppError{
		Code:       "INVALID_JSON",
		Message:    "El cuerpo de la solicitud no es un JSON válido.",
		HTTPStatus: http.StatusBadRequest,
	}

	ErrMissingFields = &AppError{
		Code:       "MISSING_FIELDS",
		Message:    "Faltan campos requeridos en la solicitud.",
		HTTPStatus: http.StatusBadRequest,
	}

	ErrBodyTooLarge = &AppError{
		Code:       "BODY_TOO_LARGE",
		Message:    "El cuerpo de la solicitud excede el tamaño máximo permitido.",
		HTTPStatus: http.StatusRequestEntityTooLarge,
	}

	ErrNotFound = &AppError{
		Code:       "NOT_FOUND",
		Message:    "El recurso solicitado no existe.",
		HTTPStatus: http.StatusNotFound,
	}

	ErrMethodNotAllowed = &AppError{
		Code:       "METHOD_NOT_ALLOWED",
		Message:    "El método HTTP no está permitido para este recurso.",
		HTTPStatus: http.StatusMethodNotAllowed,
	}

	ErrTooManyRequests = &AppError{
		Code:       "RATE_LIMITED",
		Message:    "Demasiados intentos. Espera un momento y vuelve a intentar.",
		HTTPStatus: http.StatusTooManyRequests,
	}

	ErrInternalServerError = &AppError{
		Code:       "INTERNAL_SERVER_ERROR",
		Message:    "Ocurrió un error inesperado en el servidor.",
		HTTPStatus: http.StatusInternalServerError,
	}

	ErrServiceUnavailable = &AppError{
		Code:       "SERVICE_UNAVAILABLE",
		Message:    "El servicio no está disponible temporalmente.",
		HTTPStatus: http.StatusServiceUnavailable,
	}
)

// ---------------------------------------------------------------------------------
// Autenticación y recuperación
// ---------------------------------------------------------------------------------

var (
	ErrInvalidCredentials = &AppError{
		Code:       "INVALID_CREDENTIALS",
		Message:    "Nombre de usuario o contraseña incorrectos",
		Next:       StepLogin,
		HTTPStatus: http.StatusUnauthorized,
	}

	ErrInvalidEmailFormat = &AppError{
		Code:       "INVALID_EMAIL_FORMAT",
		Message:    "Formato de email inválido.",
		Next:       StepRequest,
		HTTPStatus: http.StatusBadRequest,
	}

	ErrEmailNotRegistered = &AppError{
		Code:       "EMAIL_NOT_REGISTERED",
		Message:    "Email no registrado.",
		Next:       StepRequest,
		HTTPStatus: http.StatusNotFound,
	}

	ErrEmailDeliveryFailure = &AppError{
		Code:       "EMAIL_DELIVERY_FAILURE",
		Message:    "Error al enviar el email. Verifica credenciales de Gmail.",
		Next:       StepRequest,
		HTTPStatus: http.StatusBadGateway,
	}

	ErrInvalidOrExpiredCode = &AppError{
		Code:       "INVALID_OR_EXPIRED_CODE",
		Message:    "Código inválido o expirado.",
		Next:       StepVerify,
		HTTPStatus: http.StatusBadRequest,
	}

	ErrFlowStateExpired = &AppError{
		Code:       "FLOW_STATE_EXPIRED",
		Message:    "Sesión expirada. Intenta de nuevo.",
		Next:       StepRequest,
		HTTPStatus: http.StatusConflict,
	}

	ErrSecretMismatch = &AppError{
		Code:       "SECRET_MISMATCH",
		Message:    "Las contraseñas no coinciden.",
		Next:       StepReset,
		HTTPStatus: http.StatusBadRequest,
	}

	ErrStoreUnavailable = &AppError{
		Code:       "STORE_UNAVAILABLE",
		Message:    "Error al consultar la base de datos. Intenta más tarde.",
		HTTPStatus: http.StatusServiceUnavailable,
	}
)
