package auth

import (
	"context"

	"github.com/Rock1274/MiniBodegaWeb/internal/domain/repository"
	"github.com/Rock1274/MiniBodegaWeb/internal/http/v2/services/common"
	"github.com/Rock1274/MiniBodegaWeb/internal/observability/logger"
	"github.com/Rock1274/MiniBodegaWeb/internal/remember"
	"github.com/Rock1274/MiniBodegaWeb/internal/security/secret"
	"github.com/Rock1274/MiniBodegaWeb/internal/session"
)

// LoginInput son los datos del formulario de login.
type LoginInput struct {
	Username   string
	Secret     string
	RememberMe bool
}

// LoginResult es el resultado de un login aceptado.
type LoginResult struct {
	// AlreadyAuthenticated indica que la sesión ya tenía usuario y no se tocó nada.
	AlreadyAuthenticated bool
	User                 *repository.User
	// Remember es el token a emitir; nil si no se pidió recuérdame.
	Remember *remember.Token
}

// LoginService valida credenciales y escribe la identidad en la sesión.
type LoginService interface {
	Login(ctx context.Context, sess *session.Session, in LoginInput) (*LoginResult, error)
}

// LoginDeps contiene las dependencias para el login service.
type LoginDeps struct {
	Users  repository.UserRepository
	Record common.Recorder
}

type loginService struct {
	deps LoginDeps
}

// NewLoginService crea un nuevo servicio de login.
func NewLoginService(deps LoginDeps) LoginService {
	return &loginService{deps: deps}
}

func (s *loginService) Login(ctx context.Context, sess *session.Session, in LoginInput) (*LoginResult, error) {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("auth.login"),
		logger.Op("Login"),
	)

	if sess.Authenticated() {
		return &LoginResult{AlreadyAuthenticated: true}, nil
	}

	// Sin campos no hay consulta, pero la respuesta es la misma que una credencial mala.
	if in.Username == "" || in.Secret == "" {
		s.deps.Record.Record(common.EventLogin, common.ResultFailure)
		return nil, common.ErrInvalidCredentials
	}

	user, err := s.deps.Users.GetByCredentials(ctx, in.Username, secret.Encode(in.Secret))
	if err != nil {
		if repository.IsNotFound(err) {
			log.Debug("credentials rejected")
			s.deps.Record.Record(common.EventLogin, common.ResultFailure)
			return nil, common.ErrInvalidCredentials
		}
		log.Error("credential lookup failed", logger.Err(err))
		s.deps.Record.Record(common.EventLogin, common.ResultError)
		return nil, common.ErrStoreUnavailable
	}

	// los valores salen del store, no del formulario
	sess.SetIdentity(user.Username, user.Role, user.ID)

	res := &LoginResult{User: user}
	if in.RememberMe {
		tok := remember.TokenFor(user.Username, user.Role, user.ID)
		res.Remember = &tok
	}

	log.Info("login succeeded",
		logger.Username(user.Username),
		logger.Role(user.Role),
		logger.Bool("remember_me", in.RememberMe),
	)
	s.deps.Record.Record(common.EventLogin, common.ResultSuccess)
	return res, nil
}
