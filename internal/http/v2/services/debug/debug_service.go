// Package debug arma el diagnóstico de recuérdame: cookies, sesión y el
// usuario de la cookie en el store. No modifica nada.
package debug

import (
	"context"
	"fmt"
	"strconv"

	"github.com/Rock1274/MiniBodegaWeb/internal/domain/repository"
	dto "github.com/Rock1274/MiniBodegaWeb/internal/http/v2/dto/debug"
	"github.com/Rock1274/MiniBodegaWeb/internal/observability/logger"
	"github.com/Rock1274/MiniBodegaWeb/internal/session"
)

// Mensajes de estado.
const (
	DBNoCookies     = "No hay cookies para verificar"
	DBUserNotFound  = "❌ Usuario NO encontrado en base de datos"
	StatusActive    = "✅ Sesión activa - Usuario logueado"
	StatusRestoring = "🔄 Cookies válidas encontradas - Debería restaurar sesión automáticamente"
	StatusNothing   = "❌ No hay sesión ni cookies válidas"
)

// Input es lo que el controller extrae del request.
type Input struct {
	// Remember son las cookies recuérdame por nombre; nil si falta.
	Remember map[string]*string
	// UsernameCookie es la clave de Remember que tiene el username.
	UsernameCookie string
	AllCookies     map[string]string
}

// Service arma el diagnóstico.
type Service interface {
	Inspect(ctx context.Context, sess *session.Session, in Input) dto.Response
}

type service struct {
	users repository.UserRepository
}

// NewService crea el service de diagnóstico.
func NewService(users repository.UserRepository) Service {
	return &service{users: users}
}

func (s *service) Inspect(ctx context.Context, sess *session.Session, in Input) dto.Response {
	if sess == nil {
		sess = session.New()
	}

	resp := dto.Response{
		RememberCookies: make(map[string]string, len(in.Remember)),
		AllCookies:      in.AllCookies,
		DBStatus:        DBNoCookies,
	}
	if resp.AllCookies == nil {
		resp.AllCookies = map[string]string{}
	}

	resp.HasValidCookies = len(in.Remember) > 0
	for name, v := range in.Remember {
		if v == nil {
			resp.RememberCookies[name] = dto.NotPresent
			resp.HasValidCookies = false
			continue
		}
		resp.RememberCookies[name] = *v
	}

	resp.Session = dto.SessionInfo{
		Username:    orNotPresent(sess.Username),
		Role:        orNotPresent(sess.Role),
		UserID:      dto.NotPresent,
		SessionKeys: sess.Keys(),
		Values:      sess.Values(),
	}
	if sess.UserID != 0 {
		resp.Session.UserID = strconv.FormatInt(sess.UserID, 10)
	}
	resp.HasSession = sess.Authenticated()

	if u := in.Remember[in.UsernameCookie]; u != nil {
		resp.DBStatus = s.dbStatus(ctx, *u)
	}

	switch {
	case resp.HasSession:
		resp.Status = StatusActive
	case resp.HasValidCookies:
		resp.Status = StatusRestoring
	default:
		resp.Status = StatusNothing
	}
	return resp
}

func (s *service) dbStatus(ctx context.Context, username string) string {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if repository.IsNotFound(err) {
			return DBUserNotFound
		}
		logger.From(ctx).Warn("debug lookup failed",
			logger.Layer("service"),
			logger.Component("debug"),
			logger.Err(err),
		)
		return fmt.Sprintf("❌ Error al consultar BD: %v", err)
	}
	return fmt.Sprintf("✅ Usuario encontrado en BD: ID=%d, Usuario=%s, Tipo=%s", user.ID, user.Username, user.Role)
}

func orNotPresent(v string) string {
	if v == "" {
		return dto.NotPresent
	}
	return v
}
