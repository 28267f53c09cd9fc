// Package server construye el handler HTTP a partir de la configuración:
// abre el store, elige limiters y transporte de mail y arma la app.
package server

import (
	"context"
	"fmt"
	"net/http"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	appv2 "github.com/Rock1274/MiniBodegaWeb/internal/app/v2"
	"github.com/Rock1274/MiniBodegaWeb/internal/config"
	"github.com/Rock1274/MiniBodegaWeb/internal/email"
	httpmetrics "github.com/Rock1274/MiniBodegaWeb/internal/http"
	"github.com/Rock1274/MiniBodegaWeb/internal/http/cookies"
	"github.com/Rock1274/MiniBodegaWeb/internal/http/v2/router"
	"github.com/Rock1274/MiniBodegaWeb/internal/http/v2/services/common"
	healthsvc "github.com/Rock1274/MiniBodegaWeb/internal/http/v2/services/health"
	"github.com/Rock1274/MiniBodegaWeb/internal/observability/logger"
	"github.com/Rock1274/MiniBodegaWeb/internal/rate"
	"github.com/Rock1274/MiniBodegaWeb/internal/remember"
	"github.com/Rock1274/MiniBodegaWeb/internal/session"
	"github.com/Rock1274/MiniBodegaWeb/internal/store/pg"
)

// Built es el handler listo más los recursos a cerrar.
type Built struct {
	Handler http.Handler
	Store   *pg.Store
	Redis   *redis.Client // nil si el backend de rate no es redis
}

// Close libera Redis y el pool.
func (b *Built) Close() error {
	var err error
	if b.Redis != nil {
		err = b.Redis.Close()
	}
	if b.Store != nil {
		b.Store.Close()
	}
	return err
}

// Build arma todo desde cfg. cfg ya debe estar validada.
func Build(ctx context.Context, cfg *config.Config) (*Built, error) {
	log := logger.L().With(logger.Component("server"))

	// 1. Store
	st, err := pg.Connect(ctx, pg.Options{
		DSN:             cfg.Storage.DSN,
		MaxConns:        cfg.Storage.MaxConns,
		MinConns:        cfg.Storage.MinConns,
		ConnMaxLifetime: cfg.Storage.ConnMaxLifetime,
	})
	if err != nil {
		return nil, err
	}
	built := &Built{Store: st}

	if cfg.Storage.MigrateOnStart {
		if err := pg.Migrate(ctx, st.Pool(), "up", log); err != nil {
			_ = built.Close()
			return nil, fmt.Errorf("migrate on start: %w", err)
		}
	}

	// 2. Rate limiting
	limiters, rdb, err := buildLimiters(ctx, cfg, log)
	if err != nil {
		_ = built.Close()
		return nil, err
	}
	built.Redis = rdb

	// 3. Mail
	dispatcher, err := buildDispatcher(cfg, log)
	if err != nil {
		_ = built.Close()
		return nil, err
	}

	// 4. Sesión y recuérdame
	codec, err := session.NewCodec(session.Options{
		CookieName: cfg.Session.CookieName,
		Secret:     cfg.Session.SecretKey,
		MaxAge:     cfg.Session.MaxAge,
		Domain:     cfg.Session.Domain,
		SameSite:   cookies.ParseSameSite(cfg.Session.SameSite),
		Secure:     cfg.Session.Secure,
	})
	if err != nil {
		_ = built.Close()
		return nil, err
	}
	rememberCookies := remember.New(remember.Options{
		UsernameCookie: cfg.Remember.UsernameCookie,
		RoleCookie:     cfg.Remember.RoleCookie,
		UserIDCookie:   cfg.Remember.UserIDCookie,
		TTL:            cfg.Remember.TTL,
		HTTPOnly:       cfg.RememberHTTPOnly(),
		Secure:         cfg.Remember.Secure,
		SameSite:       cookies.ParseSameSite(cfg.Remember.SameSite),
		Domain:         cfg.Remember.Domain,
	})

	// 5. Métricas: se registran antes de armar el router
	var metricsHandler http.Handler
	var record common.Recorder
	if cfg.Metrics.Enabled {
		metricsHandler, err = httpmetrics.RegisterMetrics(httpmetrics.MetricsConfig{Pool: st.Pool})
		if err != nil {
			_ = built.Close()
			return nil, fmt.Errorf("register metrics: %w", err)
		}
		record = httpmetrics.RecordAuthEvent
	}

	health := healthsvc.Deps{DBCheck: st.Ping}
	if rdb != nil {
		health.RedisCheck = func(ctx context.Context) error { return rate.Ping(ctx, rdb) }
	}

	// 6. App
	app, err := appv2.New(appv2.Config{
		CodeTTL:        cfg.Reset.CodeTTL,
		CodeLength:     cfg.Reset.CodeLength,
		EmailPattern:   cfg.Reset.EmailPattern,
		Debug:          cfg.Debug.Enabled,
		MetricsPath:    cfg.Metrics.Path,
		TrustedProxies: cfg.Server.TrustedProxies,
	}, appv2.Deps{
		Users:      st.Users(),
		Tokens:     st.ResetTokens(),
		Dispatcher: dispatcher,
		Codec:      codec,
		Cookies:    rememberCookies,
		Limiters:   limiters,
		Metrics:    metricsHandler,
		Record:     record,
		HealthDeps: health,
	})
	if err != nil {
		_ = built.Close()
		return nil, err
	}
	built.Handler = app.Handler

	log.Info("handler built",
		logger.Bool("rate_enabled", cfg.Rate.Enabled),
		logger.String("rate_backend", cfg.Rate.Backend),
		logger.Bool("mail_log_only", cfg.Mail.LogOnly),
		logger.Bool("metrics", cfg.Metrics.Enabled),
		logger.Bool("debug", cfg.Debug.Enabled),
	)
	return built, nil
}

// BuildDispatcher arma el dispatcher de códigos con el transporte configurado.
func BuildDispatcher(cfg *config.Config) (*email.Dispatcher, error) {
	return buildDispatcher(cfg, logger.L())
}

func buildDispatcher(cfg *config.Config, log *zap.Logger) (*email.Dispatcher, error) {
	return email.NewDispatcher(buildSender(cfg, log), nil, email.DispatcherConfig{
		Subject:        cfg.Mail.Subject,
		Signature:      cfg.Mail.Signature,
		SupportAddress: cfg.Mail.SupportAddress,
		MaxRetries:     cfg.SMTP.MaxRetries,
		RetryBase:      cfg.SMTP.RetryBase,
	})
}

// BuildSender elige el transporte de mail según la configuración.
func BuildSender(cfg *config.Config) email.Sender {
	return buildSender(cfg, logger.L())
}

func buildSender(cfg *config.Config, log *zap.Logger) email.Sender {
	if cfg.Mail.LogOnly {
		log.Warn("mail.log_only enabled: verification codes are not delivered")
		return email.LogSender{IncludeBody: !cfg.IsProd()}
	}
	return email.NewSMTPSender(email.SMTPConfig{
		Host:               cfg.SMTP.Host,
		Port:               cfg.SMTP.Port,
		Username:           cfg.SMTP.Username,
		Password:           cfg.SMTP.Password,
		From:               cfg.SMTP.From,
		TLSMode:            cfg.SMTP.TLS,
		InsecureSkipVerify: cfg.SMTP.InsecureSkipVerify,
	})
}

func buildLimiters(ctx context.Context, cfg *config.Config, log *zap.Logger) (router.Limiters, *redis.Client, error) {
	var out router.Limiters
	if !cfg.Rate.Enabled {
		return out, nil, nil
	}

	rules := []struct {
		name string
		rule config.RateRule
		dst  *rate.Limiter
	}{
		{"login", cfg.Rate.Login, &out.Login},
		{"forgot", cfg.Rate.Forgot, &out.Forgot},
		{"verify", cfg.Rate.Verify, &out.Verify},
		{"verify_email", cfg.Rate.VerifyEmail, &out.VerifyEmail},
	}

	switch cfg.Rate.Backend {
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			DB:       cfg.Redis.DB,
			Password: cfg.Redis.Password,
		})
		// sin Redis al arrancar se sigue igual: el limiter falla abierto
		if err := rate.Ping(ctx, client); err != nil {
			log.Warn("redis unreachable at startup", logger.Err(err))
		}
		for _, r := range rules {
			l, err := rate.NewRedisLimiter(client, cfg.Redis.Prefix+"rl:"+r.name+":", rate.Rule{Limit: r.rule.Limit, Window: r.rule.Window})
			if err != nil {
				_ = client.Close()
				return out, nil, err
			}
			*r.dst = l
		}
		return out, client, nil
	default:
		for _, r := range rules {
			l, err := rate.NewMemoryLimiter(rate.Rule{Limit: r.rule.Limit, Window: r.rule.Window})
			if err != nil {
				return out, nil, err
			}
			*r.dst = l
		}
		return out, nil, nil
	}
}
