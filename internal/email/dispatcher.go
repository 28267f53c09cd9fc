package email

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/Rock1274/MiniBodegaWeb/internal/observability/logger"
)

// DispatcherConfig arma el asunto, la firma y la política de reintentos.
type DispatcherConfig struct {
	Subject        string
	Signature      string
	SupportAddress string
	MaxRetries     int
	RetryBase      time.Duration
}

// Dispatcher es el Notification Dispatcher del flujo de recuperación.
type Dispatcher struct {
	sender Sender
	tpl    *Templates
	cfg    DispatcherConfig
}

// NewDispatcher construye el dispatcher. tpl nil carga los templates embebidos.
func NewDispatcher(sender Sender, tpl *Templates, cfg DispatcherConfig) (*Dispatcher, error) {
	if sender == nil {
		return nil, errors.New("email: nil sender")
	}
	if tpl == nil {
		var err error
		if tpl, err = LoadTemplates(); err != nil {
			return nil, err
		}
	}
	if cfg.RetryBase <= 0 {
		cfg.RetryBase = 500 * time.Millisecond
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	return &Dispatcher{sender: sender, tpl: tpl, cfg: cfg}, nil
}

// Send entrega el código a destination. Devuelve nil sólo si el transporte aceptó
// el mensaje; cualquier otra salida es ErrDeliveryFailure.
func (d *Dispatcher) Send(ctx context.Context, destination string, msg CodeMessage) error {
	log := logger.From(ctx).With(logger.Component("email.dispatcher"), logger.Op("Send"))

	ttl := msg.TTL
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	html, text, err := d.tpl.RenderCode(CodeVars{
		Subject:        d.cfg.Subject,
		Code:           msg.Code,
		DisplayName:    strings.TrimSpace(msg.DisplayName),
		TTLMinutes:     int(ttl / time.Minute),
		Signature:      d.cfg.Signature,
		SupportAddress: d.cfg.SupportAddress,
	})
	if err != nil {
		log.Error("render failed", logger.Err(err))
		return fmt.Errorf("%w: %w", ErrDeliveryFailure, err)
	}
	m := Message{To: destination, Subject: d.cfg.Subject, HTML: html, Text: text}

	var (
		attempt int
		last    Diagnosis
	)
	backoff := retry.WithMaxRetries(uint64(d.cfg.MaxRetries), retry.NewExponential(d.cfg.RetryBase))
	err = retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempt++
		serr := d.sender.Send(ctx, m)
		if serr == nil {
			return nil
		}
		last = DiagnoseSMTP(serr)
		log.Warn("send attempt failed",
			logger.Int("attempt", attempt),
			logger.String("diag", last.Code),
			logger.Bool("temporary", last.Temporary),
			logger.Err(serr),
		)
		if last.Temporary {
			return retry.RetryableError(serr)
		}
		return serr
	})
	if err != nil {
		log.Error("delivery failed", logger.String("diag", last.Code), logger.Int("attempts", attempt))
		return fmt.Errorf("%w (%s): %w", ErrDeliveryFailure, last.Code, err)
	}

	log.Info("verification code sent", logger.Int("attempts", attempt))
	return nil
}
