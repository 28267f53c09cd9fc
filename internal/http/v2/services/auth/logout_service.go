package auth

import (
	"context"

	"github.com/Rock1274/MiniBodegaWeb/internal/http/v2/services/common"
	"github.com/Rock1274/MiniBodegaWeb/internal/observability/logger"
	"github.com/Rock1274/MiniBodegaWeb/internal/session"
)

// LogoutService borra la sesión. Es idempotente; las cookies recuérdame
// las borra el controller porque requieren la respuesta.
type LogoutService interface {
	Logout(ctx context.Context, sess *session.Session)
}

type logoutService struct {
	record common.Recorder
}

// NewLogoutService crea el service de logout.
func NewLogoutService(record common.Recorder) LogoutService {
	return &logoutService{record: record}
}

func (s *logoutService) Logout(ctx context.Context, sess *session.Session) {
	if sess == nil {
		return
	}
	if sess.Authenticated() {
		logger.From(ctx).Info("logout",
			logger.Layer("service"),
			logger.Component("auth.logout"),
			logger.Username(sess.Username),
		)
	}
	sess.Clear()
	s.record.Record(common.EventLogout, common.ResultSuccess)
}
