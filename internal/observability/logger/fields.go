package logger

import (
	"strconv"
	"time"

	"go.uber.org/zap"
)

// ─── HTTP ───

func RequestID(v string) zap.Field { return zap.String("request_id", v) }
func Method(v string) zap.Field    { return zap.String("method", v) }
func Path(v string) zap.Field      { return zap.String("path", v) }
func Status(v int) zap.Field       { return zap.Int("status", v) }
func Bytes(v int) zap.Field        { return zap.Int("bytes", v) }
func ClientIP(v string) zap.Field  { return zap.String("client_ip", v) }
func UserAgent(v string) zap.Field { return zap.String("user_agent", v) }

// DurationMs registra la duración en milisegundos.
func DurationMs(v int64) zap.Field { return zap.Int64("duration_ms", v) }

// Duration registra una duración legible (ej: TTLs).
func Duration(key string, v time.Duration) zap.Field { return zap.Duration(key, v) }

// ─── Identidad / flujo ───

// Username es el NUsuario del usuario autenticado o intentando autenticarse.
func Username(v string) zap.Field { return zap.String("username", v) }

// Role es el Tipo del usuario.
func Role(v string) zap.Field { return zap.String("role", v) }

// UserID acepta el id numérico de Usuario.
func UserID(v int64) zap.Field { return zap.String("user_id", strconv.FormatInt(v, 10)) }

// Email: usar con nivel debug salvo en errores de entrega.
func Email(v string) zap.Field { return zap.String("email", v) }

// ResetStep indica en qué paso del flujo de recuperación estamos.
func ResetStep(v string) zap.Field { return zap.String("reset_step", v) }

// Restored indica si la sesión fue restaurada desde las cookies de recuérdame.
func Restored(v bool) zap.Field { return zap.Bool("restored", v) }

// ─── Sistema ───

func Component(v string) zap.Field { return zap.String("component", v) }
func Op(v string) zap.Field        { return zap.String("op", v) }
func Layer(v string) zap.Field     { return zap.String("layer", v) }
func Err(err error) zap.Field      { return zap.Error(err) }

// ─── Genéricos ───

func Count(v int) zap.Field             { return zap.Int("count", v) }
func Key(v string) zap.Field            { return zap.String("key", v) }
func Any(key string, v any) zap.Field   { return zap.Any(key, v) }
func String(key, v string) zap.Field    { return zap.String(key, v) }
func Int(key string, v int) zap.Field   { return zap.Int(key, v) }
func Bool(key string, v bool) zap.Field { return zap.Bool(key, v) }
