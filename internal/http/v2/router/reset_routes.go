package router

import (
	"github.com/go-chi/chi/v5"

	mw "github.com/Rock1274/MiniBodegaWeb/internal/http/v2/middlewares"
	"github.com/Rock1274/MiniBodegaWeb/internal/http/v2/services/common"
)

// RegisterResetRoutes registra los tres pasos de recuperación.
// El paso 3 no lleva límite: sin código verificado no hace nada.
// El paso 2 se limita por IP y además por cuenta.
func RegisterResetRoutes(r chi.Router, deps Deps) {
	c := deps.Controllers.Reset.Flow

	r.Get("/recuperar_contrasena", c.RequestCode)
	r.With(limit(deps.Limiters.Forgot, common.EventRequest, deps.OnLimited)).
		Post("/recuperar_contrasena", c.RequestCode)

	r.Get("/verificar_codigo", c.VerifyCode)
	r.With(
		limit(deps.Limiters.Verify, common.EventVerify, deps.OnLimited),
		limitBy(deps.Limiters.VerifyEmail, mw.ResetEmailRateKey, common.EventVerify, deps.OnLimited),
	).Post("/verificar_codigo", c.VerifyCode)

	r.Get("/reset_contrasena", c.ResetSecret)
	r.Post("/reset_contrasena", c.ResetSecret)
}
