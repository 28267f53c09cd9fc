// Package health contiene el service para health checks.
package health

import (
	"context"
	"os"
	"time"

	dto "github.com/Rock1274/MiniBodegaWeb/internal/http/v2/dto/health"
	"github.com/Rock1274/MiniBodegaWeb/internal/observability/logger"
)

// HealthService define las operaciones de health check.
type HealthService interface {
	Check(ctx context.Context) dto.HealthResponse
}

// Deps contiene las dependencias inyectables para el health service.
type Deps struct {
	DBCheck    func(ctx context.Context) error
	RedisCheck func(ctx context.Context) error // nil: Redis no se usa
	Timeout    time.Duration                   // por componente; 0 = 2s
}

type healthService struct {
	deps Deps
}

// NewHealthService crea un nuevo service de health check.
func NewHealthService(deps Deps) HealthService {
	if deps.Timeout <= 0 {
		deps.Timeout = 2 * time.Second
	}
	return &healthService{deps: deps}
}

const componentHealth = "health"

func (s *healthService) Check(ctx context.Context) dto.HealthResponse {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component(componentHealth),
		logger.Op("Check"),
	)

	response := dto.HealthResponse{
		Status:     "ready",
		Components: make(map[string]dto.HealthStatus),
		Timestamp:  time.Now().UTC(),
		Version:    os.Getenv("SERVICE_VERSION"),
		Commit:     os.Getenv("SERVICE_COMMIT"),
	}

	check := func(name string, fn func(context.Context) error) {
		if fn == nil {
			response.Components[name] = dto.HealthStatus{Status: "disabled"}
			return
		}
		cctx, cancel := context.WithTimeout(ctx, s.deps.Timeout)
		defer cancel()
		if err := fn(cctx); err != nil {
			log.Warn("component unhealthy", logger.String("component", name), logger.Err(err))
			response.Components[name] = dto.HealthStatus{Status: "error", Error: err.Error()}
			response.Status = "unavailable"
			return
		}
		response.Components[name] = dto.HealthStatus{Status: "ok"}
	}

	check("db", s.deps.DBCheck)
	check("redis", s.deps.RedisCheck)

	return response
}
