package rate

import (
	"context"
	"time"

	rdb "github.com/redis/go-redis/v9"
)

// RedisLimiter cuenta con INCR sobre una clave por ventana; EXPIRE en el primer hit.
type RedisLimiter struct {
	client rdb.Cmdable
	prefix string
	rule   Rule
	now    func() time.Time
}

// NewRedisLimiter crea un limiter para rule. prefix separa reglas distintas
// (ej: "minibodega:rl:login:").
func NewRedisLimiter(client rdb.Cmdable, prefix string, rule Rule) (*RedisLimiter, error) {
	if err := rule.valid(); err != nil {
		return nil, err
	}
	if prefix == "" {
		prefix = "rl:"
	}
	return &RedisLimiter{client: client, prefix: prefix, rule: rule, now: time.Now}, nil
}

func (l *RedisLimiter) Allow(ctx context.Context, key string) (Result, error) {
	now := l.now().UTC()
	k, left := windowKey(l.prefix, key, l.rule.Window, now)

	pipe := l.client.TxPipeline()
	incr := pipe.Incr(ctx, k)
	pttl := pipe.PTTL(ctx, k)
	if _, err := pipe.Exec(ctx); err != nil {
		return Result{}, err
	}

	if incr.Val() == 1 || pttl.Val() < 0 {
		// primer hit de la ventana, o EXPIRE perdido en un intento anterior
		if err := l.client.PExpire(ctx, k, left).Err(); err != nil {
			return Result{}, err
		}
	} else if pttl.Val() > 0 {
		left = pttl.Val()
	}
	return decide(incr.Val(), int64(l.rule.Limit), left), nil
}

// Ping verifica la conexión. Lo usa /readyz.
func Ping(ctx context.Context, client rdb.Cmdable) error {
	return client.Ping(ctx).Err()
}
