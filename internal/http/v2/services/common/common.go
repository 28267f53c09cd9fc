// Package common contiene lo compartido por los services: los tipos de error
// que ve el controller, el reloj inyectable y el registro de eventos.
package common

import (
	"errors"
	"time"
)

// Tipos de error de la capa de servicio. Los controllers los mapean a HTTP.
var (
	ErrInvalidCredentials   = errors.New("invalid credentials")
	ErrInvalidEmailFormat   = errors.New("invalid email format")
	ErrEmailNotRegistered   = errors.New("email not registered")
	ErrEmailDeliveryFailure = errors.New("email delivery failure")
	ErrInvalidOrExpiredCode = errors.New("invalid or expired code")
	ErrFlowStateExpired     = errors.New("reset flow state expired")
	ErrSecretMismatch       = errors.New("secrets do not match")
	ErrStoreUnavailable     = errors.New("store unavailable")
)

// Clock devuelve la hora actual. nil equivale a time.Now.
type Clock func() time.Time

// Now devuelve la hora del reloj.
func (c Clock) Now() time.Time {
	if c == nil {
		return time.Now()
	}
	return c()
}

// Recorder registra un evento de autenticación (métricas). nil es no-op.
type Recorder func(event, result string)

// Record invoca el recorder si existe.
func (r Recorder) Record(event, result string) {
	if r != nil {
		r(event, result)
	}
}

// Eventos reportados al Recorder.
const (
	EventLogin   = "login"
	EventRestore = "restore"
	EventLogout  = "logout"
	EventRequest = "reset_request"
	EventVerify  = "reset_verify"
	EventReset   = "reset_secret"
)

// Resultados reportados al Recorder.
const (
	ResultSuccess = "success"
	ResultFailure = "failure"
	ResultMiss    = "miss"
	ResultError   = "error"
)
