package reset

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/Rock1274/MiniBodegaWeb/internal/config"
	"github.com/Rock1274/MiniBodegaWeb/internal/domain/repository"
	"github.com/Rock1274/MiniBodegaWeb/internal/email"
	"github.com/Rock1274/MiniBodegaWeb/internal/http/v2/services/common"
	"github.com/Rock1274/MiniBodegaWeb/internal/observability/logger"
	"github.com/Rock1274/MiniBodegaWeb/internal/security/secret"
	"github.com/Rock1274/MiniBodegaWeb/internal/session"
)

// Dispatcher envía el código al usuario. Implementado por *email.Dispatcher.
type Dispatcher interface {
	Send(ctx context.Context, destination string, msg email.CodeMessage) error
}

var defaultEmailRE = regexp.MustCompile(config.DefaultEmailPattern)

// RequestResult es el resultado de un pedido de código aceptado.
type RequestResult struct {
	Email       string
	DisplayName string
	ExpiresAt   time.Time
}

// FlowService orquesta los tres pasos de la recuperación.
type FlowService interface {
	RequestReset(ctx context.Context, sess *session.Session, emailAddr string) (*RequestResult, error)
	VerifyCode(ctx context.Context, sess *session.Session, code string) error
	ResetSecret(ctx context.Context, sess *session.Session, newSecret, confirmSecret string) error

	// RequireCodeStep verifica que haya un email en curso (GET del paso 2).
	RequireCodeStep(sess *session.Session) error
	// RequireSecretStep verifica que el código ya se haya validado (paso 3).
	RequireSecretStep(sess *session.Session) error
}

// FlowDeps contiene las dependencias del flujo.
type FlowDeps struct {
	Users        repository.UserRepository
	Codes        CodeService
	Dispatcher   Dispatcher
	EmailPattern *regexp.Regexp
	Clock        common.Clock
	Record       common.Recorder
}

type flowService struct {
	deps FlowDeps
}

// NewFlowService crea el service del flujo de recuperación.
func NewFlowService(deps FlowDeps) FlowService {
	if deps.EmailPattern == nil {
		deps.EmailPattern = defaultEmailRE
	}
	return &flowService{deps: deps}
}

func (s *flowService) RequestReset(ctx context.Context, sess *session.Session, emailAddr string) (*RequestResult, error) {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("reset.flow"),
		logger.Op("RequestReset"),
		logger.ResetStep("request"),
	)

	emailAddr = strings.TrimSpace(emailAddr)
	if !s.deps.EmailPattern.MatchString(emailAddr) {
		s.deps.Record.Record(common.EventRequest, common.ResultFailure)
		return nil, common.ErrInvalidEmailFormat
	}

	user, err := s.deps.Users.GetByEmail(ctx, emailAddr)
	if err != nil {
		if repository.IsNotFound(err) {
			log.Debug("email not registered", logger.Email(emailAddr))
			s.deps.Record.Record(common.EventRequest, common.ResultMiss)
			return nil, common.ErrEmailNotRegistered
		}
		log.Error("user lookup by email failed", logger.Err(err))
		s.deps.Record.Record(common.EventRequest, common.ResultError)
		return nil, common.ErrStoreUnavailable
	}

	c, err := s.deps.Codes.Generate()
	if err != nil {
		log.Error("code generation failed", logger.Err(err))
		s.deps.Record.Record(common.EventRequest, common.ResultError)
		return nil, common.ErrStoreUnavailable
	}

	expiry, err := s.deps.Codes.Persist(ctx, emailAddr, c, s.deps.Clock.Now())
	if err != nil {
		s.deps.Record.Record(common.EventRequest, common.ResultError)
		return nil, err
	}

	msg := email.CodeMessage{Code: c, DisplayName: user.DisplayName, TTL: s.deps.Codes.TTL()}
	if err := s.deps.Dispatcher.Send(ctx, emailAddr, msg); err != nil {
		log.Warn("verification code delivery failed", logger.Err(err))
		s.deps.Record.Record(common.EventRequest, common.ResultFailure)
		return nil, common.ErrEmailDeliveryFailure
	}

	// sólo con el envío confirmado avanza el flujo
	sess.StartReset(emailAddr)

	log.Info("verification code sent", logger.Username(user.Username))
	s.deps.Record.Record(common.EventRequest, common.ResultSuccess)
	return &RequestResult{Email: emailAddr, DisplayName: user.DisplayName, ExpiresAt: expiry}, nil
}

func (s *flowService) VerifyCode(ctx context.Context, sess *session.Session, c string) error {
	if err := s.RequireCodeStep(sess); err != nil {
		s.deps.Record.Record(common.EventVerify, common.ResultFailure)
		return err
	}

	err := s.deps.Codes.Validate(ctx, sess.ResetEmail, strings.TrimSpace(c), s.deps.Clock.Now())
	if err != nil {
		result := common.ResultFailure
		if errors.Is(err, common.ErrStoreUnavailable) {
			result = common.ResultError
		}
		s.deps.Record.Record(common.EventVerify, result)
		return err
	}

	sess.MarkResetVerified()
	logger.From(ctx).Info("reset code verified",
		logger.Layer("service"),
		logger.Component("reset.flow"),
		logger.ResetStep("verify"),
	)
	s.deps.Record.Record(common.EventVerify, common.ResultSuccess)
	return nil
}

func (s *flowService) ResetSecret(ctx context.Context, sess *session.Session, newSecret, confirmSecret string) error {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("reset.flow"),
		logger.Op("ResetSecret"),
		logger.ResetStep("reset"),
	)

	if err := s.RequireSecretStep(sess); err != nil {
		s.deps.Record.Record(common.EventReset, common.ResultFailure)
		return err
	}
	if newSecret != confirmSecret {
		s.deps.Record.Record(common.EventReset, common.ResultFailure)
		return common.ErrSecretMismatch
	}

	err := s.deps.Users.UpdateSecretByEmail(ctx, sess.ResetEmail, secret.Encode(newSecret))
	if err != nil {
		if repository.IsNotFound(err) {
			// la cuenta desapareció entre el paso 1 y el 3
			log.Warn("reset target vanished", logger.Err(err))
			s.deps.Record.Record(common.EventReset, common.ResultMiss)
			return common.ErrEmailNotRegistered
		}
		log.Error("secret update failed", logger.Err(err))
		s.deps.Record.Record(common.EventReset, common.ResultError)
		return common.ErrStoreUnavailable
	}

	// Las cookies recuérdame emitidas antes siguen valiendo: no hay revocación.
	sess.ClearReset()
	log.Info("secret updated")
	s.deps.Record.Record(common.EventReset, common.ResultSuccess)
	return nil
}

func (s *flowService) RequireCodeStep(sess *session.Session) error {
	if sess == nil || sess.ResetEmail == "" {
		return common.ErrFlowStateExpired
	}
	return nil
}

func (s *flowService) RequireSecretStep(sess *session.Session) error {
	if sess == nil || !sess.ResetVerified || sess.ResetEmail == "" {
		return common.ErrFlowStateExpired
	}
	return nil
}
