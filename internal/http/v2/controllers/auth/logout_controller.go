package auth

import (
	"net/http"

	httperrors "github.com/Rock1274/MiniBodegaWeb/internal/http/v2/errors"
	"github.com/Rock1274/MiniBodegaWeb/internal/http/v2/helpers"
	svc "github.com/Rock1274/MiniBodegaWeb/internal/http/v2/services/auth"
	"github.com/Rock1274/MiniBodegaWeb/internal/remember"
	"github.com/Rock1274/MiniBodegaWeb/internal/session"
)

// LogoutController maneja GET /logout.
type LogoutController struct {
	service svc.LogoutService
	cookies *remember.Cookies
}

// NewLogoutController crea el controller de logout.
func NewLogoutController(service svc.LogoutService, cookies *remember.Cookies) *LogoutController {
	return &LogoutController{service: service, cookies: cookies}
}

// Logout borra la sesión y las tres cookies recuérdame. Repetirlo no falla.
func (c *LogoutController) Logout(w http.ResponseWriter, r *http.Request) {
	sess := session.FromContext(r.Context())
	c.service.Logout(r.Context(), sess)
	c.cookies.Clear(w)
	helpers.Success(w, r, sess, httperrors.StepLogin, "", "")
}
