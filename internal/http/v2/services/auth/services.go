// Package auth contiene los services de login, logout y restauración de sesión.
package auth

import (
	"github.com/Rock1274/MiniBodegaWeb/internal/domain/repository"
	"github.com/Rock1274/MiniBodegaWeb/internal/http/v2/services/common"
)

// Deps contiene las dependencias para crear los services auth.
type Deps struct {
	Users  repository.UserRepository
	Record common.Recorder
}

// Services agrupa todos los services del dominio auth.
type Services struct {
	Login   LoginService
	Restore RestoreService
	Logout  LogoutService
}

// NewServices crea el agregador de services auth.
func NewServices(d Deps) Services {
	return Services{
		Login:   NewLoginService(LoginDeps{Users: d.Users, Record: d.Record}),
		Restore: NewRestoreService(RestoreDeps{Users: d.Users, Record: d.Record}),
		Logout:  NewLogoutService(d.Record),
	}
}
