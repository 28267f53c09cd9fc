// Package reset contiene el flujo de recuperación de contraseña y el
// service de códigos de verificación.
//
// El flujo es Start -> AwaitingCode -> AwaitingNewSecret -> Done y su estado
// vive en la sesión (ResetEmail, ResetVerified). Una transición fallida no
// modifica ese estado.
package reset

import (
	"regexp"
	"time"

	"github.com/Rock1274/MiniBodegaWeb/internal/domain/repository"
	"github.com/Rock1274/MiniBodegaWeb/internal/http/v2/services/common"
)

// Deps contiene las dependencias para crear los services de recuperación.
type Deps struct {
	Users      repository.UserRepository
	Tokens     repository.ResetTokenRepository
	Dispatcher Dispatcher

	CodeTTL      time.Duration
	CodeLength   int
	EmailPattern *regexp.Regexp // nil usa DefaultEmailPattern

	Clock  common.Clock
	Record common.Recorder
}

// Services agrupa los services del dominio reset.
type Services struct {
	Codes CodeService
	Flow  FlowService
}

// NewServices crea el agregador de services reset.
func NewServices(d Deps) Services {
	codes := NewCodeService(CodeDeps{
		Tokens: d.Tokens,
		TTL:    d.CodeTTL,
		Length: d.CodeLength,
	})
	return Services{
		Codes: codes,
		Flow: NewFlowService(FlowDeps{
			Users:        d.Users,
			Codes:        codes,
			Dispatcher:   d.Dispatcher,
			EmailPattern: d.EmailPattern,
			Clock:        d.Clock,
			Record:       d.Record,
		}),
	}
}
