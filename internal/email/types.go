package email

import (
	"context"
	"errors"
	"time"
)

// ErrDeliveryFailure envuelve toda falla de envío que llega al llamador.
var ErrDeliveryFailure = errors.New("email delivery failed")

// Message es un correo ya renderizado.
type Message struct {
	To      string
	Subject string
	HTML    string
	Text    string
}

// Sender es el transporte. Implementado por SMTPSender y LogSender.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// CodeMessage es lo que el flujo de recuperación pide enviar.
type CodeMessage struct {
	Code        string
	DisplayName string        // vacío: saludo genérico
	TTL         time.Duration // vida del código, se muestra en minutos
}
