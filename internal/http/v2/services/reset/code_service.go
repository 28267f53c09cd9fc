package reset

import (
	"context"
	"crypto/subtle"
	"time"

	"github.com/Rock1274/MiniBodegaWeb/internal/domain/repository"
	"github.com/Rock1274/MiniBodegaWeb/internal/http/v2/services/common"
	"github.com/Rock1274/MiniBodegaWeb/internal/observability/logger"
	"github.com/Rock1274/MiniBodegaWeb/internal/security/code"
)

// DefaultCodeTTL es la vida de un código de verificación.
const DefaultCodeTTL = 10 * time.Minute

// CodeService genera, guarda y valida códigos de verificación.
type CodeService interface {
	// Generate devuelve un código decimal nuevo.
	Generate() (string, error)
	// Persist agrega una fila para email con expiración now+TTL y devuelve esa expiración.
	Persist(ctx context.Context, email, code string, now time.Time) (time.Time, error)
	// Validate compara contra la fila de expiración más reciente del email.
	// El límite es inclusivo: now == expiry todavía es válido.
	Validate(ctx context.Context, email, code string, now time.Time) error
	// TTL es la vida configurada de cada código.
	TTL() time.Duration
}

// CodeDeps contiene las dependencias del code service.
type CodeDeps struct {
	Tokens repository.ResetTokenRepository
	TTL    time.Duration // 0 usa DefaultCodeTTL
	Length int           // 0 usa code.DefaultLength
}

type codeService struct {
	deps CodeDeps
}

// NewCodeService crea el service de códigos.
func NewCodeService(deps CodeDeps) CodeService {
	if deps.TTL <= 0 {
		deps.TTL = DefaultCodeTTL
	}
	if deps.Length <= 0 {
		deps.Length = code.DefaultLength
	}
	return &codeService{deps: deps}
}

func (s *codeService) TTL() time.Duration { return s.deps.TTL }

func (s *codeService) Generate() (string, error) {
	return code.Generate(s.deps.Length)
}

func (s *codeService) Persist(ctx context.Context, email, c string, now time.Time) (time.Time, error) {
	// TIMESTAMPTZ guarda microsegundos: la expiración devuelta es la que queda en la base
	expiry := now.Add(s.deps.TTL).Truncate(time.Microsecond)
	err := s.deps.Tokens.Create(ctx, repository.ResetToken{Email: email, Code: c, ExpiresAt: expiry})
	if err != nil {
		logger.From(ctx).Error("reset token insert failed",
			logger.Layer("service"),
			logger.Component("reset.codes"),
			logger.Op("Persist"),
			logger.Err(err),
		)
		return time.Time{}, common.ErrStoreUnavailable
	}
	return expiry, nil
}

func (s *codeService) Validate(ctx context.Context, email, c string, now time.Time) error {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("reset.codes"),
		logger.Op("Validate"),
	)

	tok, err := s.deps.Tokens.Latest(ctx, email)
	if err != nil {
		if repository.IsNotFound(err) {
			log.Debug("no reset token for email")
			return common.ErrInvalidOrExpiredCode
		}
		log.Error("reset token lookup failed", logger.Err(err))
		return common.ErrStoreUnavailable
	}

	match := subtle.ConstantTimeCompare([]byte(tok.Code), []byte(c)) == 1
	expired := now.Truncate(time.Microsecond).After(tok.ExpiresAt)
	if !match || expired {
		// mismo error para código malo y vencido
		log.Debug("reset code rejected", logger.Bool("expired", expired))
		return common.ErrInvalidOrExpiredCode
	}
	return nil
}
