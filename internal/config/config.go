package config

import (
	"errors"
	"fmt"
	"net/netip"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	App struct {
		// dev | staging | prod
		Env  string `yaml:"env"`
		Name string `yaml:"name"`
	} `yaml:"app"`

	Log struct {
		Level string `yaml:"level"`
	} `yaml:"log"`

	Server struct {
		Addr            string        `yaml:"addr"`
		ReadTimeout     time.Duration `yaml:"read_timeout"`
		WriteTimeout    time.Duration `yaml:"write_timeout"`
		IdleTimeout     time.Duration `yaml:"idle_timeout"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
		// IPs o CIDRs de los proxies cuyo X-Forwarded-For se acepta.
		// Vacío: se usa siempre la IP de la conexión.
		TrustedProxies []string `yaml:"trusted_proxies"`
	} `yaml:"server"`

	Storage struct {
		DSN             string        `yaml:"dsn"`
		MaxConns        int           `yaml:"max_conns"`
		MinConns        int           `yaml:"min_conns"`
		ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
		MigrateOnStart  bool          `yaml:"migrate_on_start"`
	} `yaml:"storage"`

	// Sesión por conexión: cookie firmada, sin Expires (muere con el navegador).
	Session struct {
		CookieName string        `yaml:"cookie_name"`
		SecretKey  string        `yaml:"secret_key"`
		MaxAge     time.Duration `yaml:"max_age"` // vida máxima de la firma, 0 = sin límite
		Domain     string        `yaml:"domain"`
		SameSite   string        `yaml:"samesite"`
		Secure     bool          `yaml:"secure"`
	} `yaml:"session"`

	// Recuérdame: tres cookies independientes en el cliente.
	// Los defaults reproducen el comportamiento histórico (HttpOnly sí, Secure no, 30 días).
	Remember struct {
		UsernameCookie string        `yaml:"username_cookie"`
		RoleCookie     string        `yaml:"role_cookie"`
		UserIDCookie   string        `yaml:"user_id_cookie"`
		TTL            time.Duration `yaml:"ttl"`
		HTTPOnly       *bool         `yaml:"http_only"`
		Secure         bool          `yaml:"secure"`
		SameSite       string        `yaml:"samesite"`
		Domain         string        `yaml:"domain"`
	} `yaml:"remember"`

	Reset struct {
		CodeTTL      time.Duration `yaml:"code_ttl"`
		CodeLength   int           `yaml:"code_length"`
		EmailPattern string        `yaml:"email_pattern"`
	} `yaml:"reset"`

	SMTP struct {
		Host               string        `yaml:"host"`
		Port               int           `yaml:"port"`
		Username           string        `yaml:"username"`
		Password           string        `yaml:"password"`
		From               string        `yaml:"from"`
		TLS                string        `yaml:"tls"`                  // auto | starttls | ssl | none
		InsecureSkipVerify bool          `yaml:"insecure_skip_verify"` // sólo dev
		MaxRetries         int           `yaml:"max_retries"`
		RetryBase          time.Duration `yaml:"retry_base"`
	} `yaml:"smtp"`

	Mail struct {
		Subject        string `yaml:"subject"`
		SupportAddress string `yaml:"support_address"`
		Signature      string `yaml:"signature"`
		LogOnly        bool   `yaml:"log_only"` // no marca SMTP, sólo loguea
	} `yaml:"mail"`

	Rate struct {
		Enabled bool   `yaml:"enabled"`
		Backend string `yaml:"backend"` // memory | redis

		Login  RateRule `yaml:"login"`
		Forgot RateRule `yaml:"forgot"`
		Verify RateRule `yaml:"verify"`
		// intentos de código por cuenta, sumando todas las IPs
		VerifyEmail RateRule `yaml:"verify_email"`
	} `yaml:"rate"`

	Redis struct {
		Addr     string `yaml:"addr"`
		DB       int    `yaml:"db"`
		Password string `yaml:"password"`
		Prefix   string `yaml:"prefix"`
	} `yaml:"redis"`

	Metrics struct {
		Enabled bool   `yaml:"enabled"`
		Path    string `yaml:"path"`
	} `yaml:"metrics"`

	Debug struct {
		Enabled bool `yaml:"enabled"` // expone /debug_recuerdame
	} `yaml:"debug"`
}

// RateRule es un límite fijo por ventana.
type RateRule struct {
	Limit  int           `yaml:"limit"`
	Window time.Duration `yaml:"window"`
}

// DefaultEmailPattern es la validación de sintaxis de email usada en recuperación.
const DefaultEmailPattern = `^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`

// Load lee el YAML (si path no está vacío), aplica defaults y overrides de entorno.
// No valida: llamar Validate() después.
func Load(path string) (*Config, error) {
	var c Config
	if strings.TrimSpace(path) != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
		if err := yaml.Unmarshal(b, &c); err != nil {
			return nil, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}
	c.applyEnvOverrides()
	c.applyDefaults()
	return &c, nil
}

func (c *Config) applyDefaults() {
	if c.App.Env == "" {
		c.App.Env = "dev"
	}
	c.App.Env = strings.ToLower(c.App.Env)
	if c.App.Name == "" {
		c.App.Name = "minibodega"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}

	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Server.ReadTimeout <= 0 {
		c.Server.ReadTimeout = 10 * time.Second
	}
	if c.Server.WriteTimeout <= 0 {
		c.Server.WriteTimeout = 30 * time.Second
	}
	if c.Server.IdleTimeout <= 0 {
		c.Server.IdleTimeout = 60 * time.Second
	}
	if c.Server.ShutdownTimeout <= 0 {
		c.Server.ShutdownTimeout = 15 * time.Second
	}

	if c.Storage.MaxConns <= 0 {
		c.Storage.MaxConns = 10
	}
	if c.Storage.MinConns <= 0 {
		c.Storage.MinConns = 2
	}

	if c.Session.CookieName == "" {
		c.Session.CookieName = "session"
	}
	if c.Session.SameSite == "" {
		c.Session.SameSite = "Lax"
	}

	if c.Remember.UsernameCookie == "" {
		c.Remember.UsernameCookie = "recuerdame_usuario"
	}
	if c.Remember.RoleCookie == "" {
		c.Remember.RoleCookie = "recuerdame_tipo"
	}
	if c.Remember.UserIDCookie == "" {
		c.Remember.UserIDCookie = "recuerdame_user_id"
	}
	if c.Remember.TTL == 0 {
		c.Remember.TTL = 30 * 24 * time.Hour
	}
	if c.Remember.HTTPOnly == nil {
		on := true
		c.Remember.HTTPOnly = &on
	}
	if c.Remember.SameSite == "" {
		c.Remember.SameSite = "Lax"
	}

	if c.Reset.CodeTTL == 0 {
		c.Reset.CodeTTL = 10 * time.Minute
	}
	if c.Reset.CodeLength == 0 {
		c.Reset.CodeLength = 6
	}
	if c.Reset.EmailPattern == "" {
		c.Reset.EmailPattern = DefaultEmailPattern
	}

	if c.SMTP.Port == 0 {
		c.SMTP.Port = 587
	}
	if c.SMTP.TLS == "" {
		c.SMTP.TLS = "starttls"
	}
	if c.SMTP.MaxRetries < 0 {
		c.SMTP.MaxRetries = 0
	} else if c.SMTP.MaxRetries == 0 {
		c.SMTP.MaxRetries = 2
	}
	if c.SMTP.RetryBase <= 0 {
		c.SMTP.RetryBase = 500 * time.Millisecond
	}

	if c.Mail.Subject == "" {
		c.Mail.Subject = "Código de Verificación para Recuperar Contraseña"
	}
	if c.Mail.Signature == "" {
		c.Mail.Signature = "Equipo de Soporte CocaCola"
	}

	if c.Rate.Backend == "" {
		c.Rate.Backend = "memory"
	}
	defRule(&c.Rate.Login, 10, time.Minute)
	defRule(&c.Rate.Forgot, 5, 10*time.Minute)
	defRule(&c.Rate.Verify, 10, 10*time.Minute)
	defRule(&c.Rate.VerifyEmail, 10, 10*time.Minute)

	if c.Redis.Prefix == "" {
		c.Redis.Prefix = "minibodega:rl:"
	}
	if c.Metrics.Path == "" {
		c.Metrics.Path = "/metrics"
	}
}

func defRule(r *RateRule, limit int, window time.Duration) {
	if r.Limit <= 0 {
		r.Limit = limit
	}
	if r.Window <= 0 {
		r.Window = window
	}
}

// RememberHTTPOnly devuelve el flag HttpOnly efectivo de las cookies de recuérdame.
func (c *Config) RememberHTTPOnly() bool {
	return c.Remember.HTTPOnly == nil || *c.Remember.HTTPOnly
}

// IsProd indica si corremos en producción.
func (c *Config) IsProd() bool {
	return c.App.Env == "prod"
}

// ---- Helpers env ----

func getEnvStr(key string) (string, bool) {
	v := os.Getenv(key)
	return v, v != ""
}
func getEnvInt(key string) (int, bool) {
	if s, ok := getEnvStr(key); ok {
		if i, err := strconv.Atoi(strings.TrimSpace(s)); err == nil {
			return i, true
		}
	}
	return 0, false
}
func getEnvBool(key string) (bool, bool) {
	if s, ok := getEnvStr(key); ok {
		if b, err := strconv.ParseBool(strings.TrimSpace(s)); err == nil {
			return b, true
		}
	}
	return false, false
}
func getEnvCSV(key string) ([]string, bool) {
	s, ok := getEnvStr(key)
	if !ok {
		return nil, false
	}
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out, true
}
func getEnvDur(key string) (time.Duration, bool) {
	if s, ok := getEnvStr(key); ok {
		if d, err := time.ParseDuration(strings.TrimSpace(s)); err == nil {
			return d, true
		}
	}
	return 0, false
}

// applyEnvOverrides pisa el YAML con variables de entorno.
func (c *Config) applyEnvOverrides() {
	// APP
	if v, ok := getEnvStr("APP_ENV"); ok {
		c.App.Env = strings.ToLower(v)
	}
	if v, ok := getEnvStr("LOG_LEVEL"); ok {
		c.Log.Level = v
	}

	// SERVER
	if v, ok := getEnvStr("SERVER_ADDR"); ok {
		c.Server.Addr = v
	}
	if v, ok := getEnvDur("SERVER_SHUTDOWN_TIMEOUT"); ok {
		c.Server.ShutdownTimeout = v
	}
	if v, ok := getEnvCSV("SERVER_TRUSTED_PROXIES"); ok {
		c.Server.TrustedProxies = v
	}

	// STORAGE
	if v, ok := getEnvStr("STORAGE_DSN"); ok {
		c.Storage.DSN = v
	}
	if v, ok := getEnvInt("STORAGE_MAX_CONNS"); ok {
		c.Storage.MaxConns = v
	}
	if v, ok := getEnvInt("STORAGE_MIN_CONNS"); ok {
		c.Storage.MinConns = v
	}
	if v, ok := getEnvBool("STORAGE_MIGRATE_ON_START"); ok {
		c.Storage.MigrateOnStart = v
	}

	// SESSION
	if v, ok := getEnvStr("SESSION_SECRET_KEY"); ok {
		c.Session.SecretKey = v
	}
	if v, ok := getEnvStr("SESSION_COOKIE_NAME"); ok {
		c.Session.CookieName = v
	}
	if v, ok := getEnvBool("SESSION_SECURE"); ok {
		c.Session.Secure = v
	}
	if v, ok := getEnvDur("SESSION_MAX_AGE"); ok {
		c.Session.MaxAge = v
	}

	// REMEMBER
	if v, ok := getEnvDur("REMEMBER_TTL"); ok {
		c.Remember.TTL = v
	}
	if v, ok := getEnvBool("REMEMBER_SECURE"); ok {
		c.Remember.Secure = v
	}
	if v, ok := getEnvBool("REMEMBER_HTTP_ONLY"); ok {
		c.Remember.HTTPOnly = &v
	}
	if v, ok := getEnvStr("REMEMBER_SAMESITE"); ok {
		c.Remember.SameSite = v
	}

	// RESET
	if v, ok := getEnvDur("RESET_CODE_TTL"); ok {
		c.Reset.CodeTTL = v
	}

	// SMTP
	if v, ok := getEnvStr("SMTP_HOST"); ok {
		c.SMTP.Host = v
	}
	if v, ok := getEnvInt("SMTP_PORT"); ok {
		c.SMTP.Port = v
	}
	if v, ok := getEnvStr("SMTP_USERNAME"); ok {
		c.SMTP.Username = v
	}
	if v, ok := getEnvStr("SMTP_PASSWORD"); ok {
		c.SMTP.Password = v
	}
	if v, ok := getEnvStr("SMTP_FROM"); ok {
		c.SMTP.From = v
	}
	if v, ok := getEnvStr("SMTP_TLS"); ok {
		c.SMTP.TLS = strings.ToLower(v)
	}
	if v, ok := getEnvBool("MAIL_LOG_ONLY"); ok {
		c.Mail.LogOnly = v
	}

	// RATE / REDIS
	if v, ok := getEnvBool("RATE_ENABLED"); ok {
		c.Rate.Enabled = v
	}
	if v, ok := getEnvStr("RATE_BACKEND"); ok {
		c.Rate.Backend = strings.ToLower(v)
	}
	if v, ok := getEnvStr("REDIS_ADDR"); ok {
		c.Redis.Addr = v
	}
	if v, ok := getEnvInt("REDIS_DB"); ok {
		c.Redis.DB = v
	}
	if v, ok := getEnvStr("REDIS_PASSWORD"); ok {
		c.Redis.Password = v
	}

	// METRICS / DEBUG
	if v, ok := getEnvBool("METRICS_ENABLED"); ok {
		c.Metrics.Enabled = v
	}
	if v, ok := getEnvBool("DEBUG_ENABLED"); ok {
		c.Debug.Enabled = v
	}

	// Guardia dura: en prod nunca exponemos el diagnóstico de recuérdame.
	if strings.EqualFold(c.App.Env, "prod") {
		c.Debug.Enabled = false
	}
}

// Validate revisa los valores críticos. Devuelve todos los problemas juntos.
func (c *Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.Storage.DSN) == "" {
		errs = append(errs, errors.New("storage.dsn is required"))
	}
	if len(c.Session.SecretKey) < 16 {
		errs = append(errs, errors.New("session.secret_key must be at least 16 bytes"))
	}
	if c.Remember.TTL <= 0 {
		errs = append(errs, errors.New("remember.ttl must be positive"))
	}
	if c.Reset.CodeTTL <= 0 {
		errs = append(errs, errors.New("reset.code_ttl must be positive"))
	}
	if c.Reset.CodeLength <= 0 {
		errs = append(errs, errors.New("reset.code_length must be positive"))
	}
	for _, p := range c.Server.TrustedProxies {
		if !validProxy(p) {
			errs = append(errs, fmt.Errorf("server.trusted_proxies: %q is not an IP or CIDR", p))
		}
	}
	switch c.Rate.Backend {
	case "memory":
	case "redis":
		if c.Rate.Enabled && strings.TrimSpace(c.Redis.Addr) == "" {
			errs = append(errs, errors.New("redis.addr is required for rate.backend=redis"))
		}
	default:
		errs = append(errs, fmt.Errorf("rate.backend %q not supported (memory|redis)", c.Rate.Backend))
	}
	switch c.SMTP.TLS {
	case "auto", "starttls", "ssl", "none":
	default:
		errs = append(errs, fmt.Errorf("smtp.tls %q not supported", c.SMTP.TLS))
	}
	if !c.Mail.LogOnly && strings.TrimSpace(c.SMTP.Host) == "" {
		errs = append(errs, errors.New("smtp.host is required unless mail.log_only"))
	}
	return errors.Join(errs...)
}

func validProxy(s string) bool {
	s = strings.TrimSpace(s)
	if strings.Contains(s, "/") {
		_, err := netip.ParsePrefix(s)
		return err == nil
	}
	_, err := netip.ParseAddr(s)
	return err == nil
}

// Warnings lista configuraciones válidas pero débiles, para loguear al arrancar.
func (c *Config) Warnings() []string {
	var out []string
	if c.IsProd() && !c.Remember.Secure {
		out = append(out, "remember cookies are sent without Secure flag")
	}
	if c.IsProd() && !c.Session.Secure {
		out = append(out, "session cookie is sent without Secure flag")
	}
	if !c.RememberHTTPOnly() {
		out = append(out, "remember cookies are readable from scripts (http_only=false)")
	}
	if c.IsProd() && c.Mail.LogOnly {
		out = append(out, "mail.log_only is enabled in prod: codes are not delivered")
	}
	return out
}
