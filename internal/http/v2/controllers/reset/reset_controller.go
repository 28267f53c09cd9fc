// Package reset contiene el controller de los tres pasos de recuperación.
package reset

import (
	"net/http"
	"strings"

	dto "github.com/Rock1274/MiniBodegaWeb/internal/http/v2/dto/reset"
	httperrors "github.com/Rock1274/MiniBodegaWeb/internal/http/v2/errors"
	"github.com/Rock1274/MiniBodegaWeb/internal/http/v2/helpers"
	svc "github.com/Rock1274/MiniBodegaWeb/internal/http/v2/services/reset"
	"github.com/Rock1274/MiniBodegaWeb/internal/session"
)

// Mensajes de éxito de cada paso.
const (
	msgCodeSent     = "Código de verificación enviado a tu email, "
	msgCodeVerified = "Código verificado. Ingresa tu nueva contraseña."
	msgSecretSaved  = "Contraseña actualizada exitosamente. Ahora puedes iniciar sesión."
	fallbackName    = "Usuario"
)

// Controllers agrupa los controllers de recuperación.
type Controllers struct {
	Flow *FlowController
}

// NewControllers crea los controllers de recuperación.
func NewControllers(s svc.Services) *Controllers {
	return &Controllers{Flow: NewFlowController(s.Flow)}
}

// FlowController maneja /recuperar_contrasena, /verificar_codigo y /reset_contrasena.
type FlowController struct {
	flow svc.FlowService
}

// NewFlowController crea el controller del flujo.
func NewFlowController(flow svc.FlowService) *FlowController {
	return &FlowController{flow: flow}
}

func sessionOrFail(w http.ResponseWriter, r *http.Request) *session.Session {
	sess := session.FromContext(r.Context())
	if sess == nil {
		httperrors.WriteError(w, httperrors.ErrInternalServerError.WithDetail("session not loaded"))
	}
	return sess
}

// RequestCode maneja GET/POST /recuperar_contrasena.
func (c *FlowController) RequestCode(w http.ResponseWriter, r *http.Request) {
	sess := sessionOrFail(w, r)
	if sess == nil {
		return
	}
	if r.Method == http.MethodGet {
		helpers.State(w, sess, "recuperar_contrasena")
		return
	}

	var req dto.RequestCodeRequest
	if err := helpers.ReadInput(w, r, &req); err != nil {
		helpers.Fail(w, r, sess, err)
		return
	}
	emailAddr := strings.TrimSpace(req.Email)
	if !helpers.WantsJSON(r) {
		sess.AddFlash(session.FlashInfo, "Email ingresado: "+emailAddr)
	}

	res, err := c.flow.RequestReset(r.Context(), sess, emailAddr)
	if err != nil {
		helpers.Fail(w, r, sess, helpers.ServiceError(err, httperrors.StepRequest))
		return
	}

	name := res.DisplayName
	if name == "" {
		name = fallbackName
	}
	helpers.Success(w, r, sess, httperrors.StepVerify, session.FlashSuccess, msgCodeSent+name)
}

// VerifyCode maneja GET/POST /verificar_codigo.
func (c *FlowController) VerifyCode(w http.ResponseWriter, r *http.Request) {
	sess := sessionOrFail(w, r)
	if sess == nil {
		return
	}
	if r.Method == http.MethodGet {
		if err := c.flow.RequireCodeStep(sess); err != nil {
			helpers.Fail(w, r, sess, helpers.ServiceError(err, httperrors.StepRequest))
			return
		}
		helpers.State(w, sess, "verificar_codigo")
		return
	}

	var req dto.VerifyCodeRequest
	if err := helpers.ReadInput(w, r, &req); err != nil {
		helpers.Fail(w, r, sess, err)
		return
	}
	if err := c.flow.VerifyCode(r.Context(), sess, req.Code); err != nil {
		helpers.Fail(w, r, sess, helpers.ServiceError(err, httperrors.StepVerify))
		return
	}
	helpers.Success(w, r, sess, httperrors.StepReset, session.FlashSuccess, msgCodeVerified)
}

// ResetSecret maneja GET/POST /reset_contrasena.
func (c *FlowController) ResetSecret(w http.ResponseWriter, r *http.Request) {
	sess := sessionOrFail(w, r)
	if sess == nil {
		return
	}
	// el guard corre antes de leer el formulario, también en POST
	if err := c.flow.RequireSecretStep(sess); err != nil {
		helpers.Fail(w, r, sess, helpers.ServiceError(err, httperrors.StepRequest))
		return
	}
	if r.Method == http.MethodGet {
		helpers.State(w, sess, "reset_contrasena")
		return
	}

	var req dto.ResetSecretRequest
	if err := helpers.ReadInput(w, r, &req); err != nil {
		helpers.Fail(w, r, sess, err)
		return
	}
	if err := c.flow.ResetSecret(r.Context(), sess, req.NewSecret, req.ConfirmSecret); err != nil {
		helpers.Fail(w, r, sess, helpers.ServiceError(err, httperrors.StepReset))
		return
	}
	helpers.Success(w, r, sess, httperrors.StepLogin, session.FlashSuccess, msgSecretSaved)
}
