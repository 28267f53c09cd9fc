// Package auth contiene los controllers de login y logout.
package auth

import (
	"github.com/Rock1274/MiniBodegaWeb/internal/http/v2/services/common"
	svc "github.com/Rock1274/MiniBodegaWeb/internal/http/v2/services/auth"
	"github.com/Rock1274/MiniBodegaWeb/internal/remember"
)

// Controllers agrupa los controllers de auth.
type Controllers struct {
	Login  *LoginController
	Logout *LogoutController
}

// NewControllers crea los controllers de auth.
func NewControllers(s svc.Services, cookies *remember.Cookies, clock common.Clock) *Controllers {
	return &Controllers{
		Login:  NewLoginController(s.Login, s.Restore, cookies, clock),
		Logout: NewLogoutController(s.Logout, cookies),
	}
}
