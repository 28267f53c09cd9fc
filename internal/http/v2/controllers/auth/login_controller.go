package auth

import (
	"net/http"

	dto "github.com/Rock1274/MiniBodegaWeb/internal/http/v2/dto/auth"
	httperrors "github.com/Rock1274/MiniBodegaWeb/internal/http/v2/errors"
	"github.com/Rock1274/MiniBodegaWeb/internal/http/v2/helpers"
	svc "github.com/Rock1274/MiniBodegaWeb/internal/http/v2/services/auth"
	"github.com/Rock1274/MiniBodegaWeb/internal/http/v2/services/common"
	"github.com/Rock1274/MiniBodegaWeb/internal/observability/logger"
	"github.com/Rock1274/MiniBodegaWeb/internal/remember"
	"github.com/Rock1274/MiniBodegaWeb/internal/session"
)

// LoginController maneja GET/POST /login.
type LoginController struct {
	service svc.LoginService
	restore svc.RestoreService
	cookies *remember.Cookies
	clock   common.Clock
}

// NewLoginController crea el controller de login.
func NewLoginController(service svc.LoginService, restore svc.RestoreService, cookies *remember.Cookies, clock common.Clock) *LoginController {
	return &LoginController{service: service, restore: restore, cookies: cookies, clock: clock}
}

// Login maneja GET y POST /login.
//
// El middleware de restauración saltea /login, así que acá se intenta
// restaurar primero; con sesión activa se manda al inicio.
func (c *LoginController) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("LoginController.Login"))

	sess := session.FromContext(ctx)
	if sess == nil {
		httperrors.WriteError(w, httperrors.ErrInternalServerError.WithDetail("session not loaded"))
		return
	}

	if !sess.Authenticated() {
		if tok, ok := c.cookies.Read(r); ok {
			c.restore.Restore(ctx, sess, tok)
		}
	}
	if sess.Authenticated() {
		helpers.Success(w, r, sess, httperrors.StepIndex, "", "")
		return
	}

	if r.Method == http.MethodGet {
		helpers.State(w, sess, "login")
		return
	}

	var req dto.LoginRequest
	if err := helpers.ReadInput(w, r, &req); err != nil {
		helpers.Fail(w, r, sess, err)
		return
	}

	res, err := c.service.Login(ctx, sess, svc.LoginInput{
		Username:   req.Username,
		Secret:     req.Secret,
		RememberMe: req.RememberMe,
	})
	if err != nil {
		helpers.Fail(w, r, sess, helpers.ServiceError(err, httperrors.StepLogin))
		return
	}

	if res.Remember != nil {
		c.cookies.Issue(w, *res.Remember, c.clock.Now())
		log.Debug("remember cookies issued", logger.Username(res.Remember.Username))
	}
	helpers.Success(w, r, sess, httperrors.StepIndex, "", "")
}
