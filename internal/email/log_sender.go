package email

import (
	"context"

	"go.uber.org/zap"

	"github.com/Rock1274/MiniBodegaWeb/internal/observability/logger"
)

// LogSender no entrega nada: registra el envío en el log (mail.log_only).
// Con IncludeBody el texto plano, que lleva el código, se loguea en debug;
// sólo para desarrollo local.
type LogSender struct {
	IncludeBody bool
}

func (s LogSender) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	log := logger.From(ctx).With(logger.Component("email.log"))
	log.Info("mail not sent (log_only)", logger.String("subject", msg.Subject))

	fields := []zap.Field{logger.Email(msg.To)}
	if s.IncludeBody {
		fields = append(fields, logger.String("body", msg.Text))
	}
	log.Debug("log_only message", fields...)
	return nil
}
