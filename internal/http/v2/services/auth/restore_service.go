package auth

import (
	"context"

	"github.com/Rock1274/MiniBodegaWeb/internal/domain/repository"
	"github.com/Rock1274/MiniBodegaWeb/internal/http/v2/services/common"
	"github.com/Rock1274/MiniBodegaWeb/internal/observability/logger"
	"github.com/Rock1274/MiniBodegaWeb/internal/remember"
	"github.com/Rock1274/MiniBodegaWeb/internal/session"
)

// RestoreService repone la identidad a partir de un token recuérdame.
//
// Del token sólo se usa el username: rol e id se leen del store en cada
// intento, así un cambio de rol se refleja en la próxima restauración.
// Cualquier error se registra y se trata como "sin sesión".
type RestoreService interface {
	Restore(ctx context.Context, sess *session.Session, tok remember.Token) bool
}

// RestoreDeps contiene las dependencias para el restore service.
type RestoreDeps struct {
	Users  repository.UserRepository
	Record common.Recorder
}

type restoreService struct {
	deps RestoreDeps
}

// NewRestoreService crea el service de restauración.
func NewRestoreService(deps RestoreDeps) RestoreService {
	return &restoreService{deps: deps}
}

func (s *restoreService) Restore(ctx context.Context, sess *session.Session, tok remember.Token) bool {
	if sess == nil || sess.Authenticated() {
		return false
	}
	if tok.Username == "" || tok.Role == "" || tok.UserID == "" {
		return false
	}

	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("auth.restore"),
		logger.Op("Restore"),
	)

	user, err := s.deps.Users.GetByUsername(ctx, tok.Username)
	if err != nil {
		if repository.IsNotFound(err) {
			log.Info("remembered user not found", logger.Username(tok.Username), logger.Restored(false))
			s.deps.Record.Record(common.EventRestore, common.ResultMiss)
			return false
		}
		log.Warn("session restore lookup failed", logger.Err(err), logger.Restored(false))
		s.deps.Record.Record(common.EventRestore, common.ResultError)
		return false
	}

	sess.SetIdentity(user.Username, user.Role, user.ID)
	log.Info("session restored from remember cookies",
		logger.Username(user.Username),
		logger.Role(user.Role),
		logger.Restored(true),
	)
	s.deps.Record.Record(common.EventRestore, common.ResultSuccess)
	return true
}
