package rate

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// MemoryLimiter es la variante en proceso, sobre go-cache.
type MemoryLimiter struct {
	c    *gocache.Cache
	rule Rule
	now  func() time.Time
}

// NewMemoryLimiter crea un limiter para rule. Las ventanas vencidas se purgan solas.
func NewMemoryLimiter(rule Rule) (*MemoryLimiter, error) {
	if err := rule.valid(); err != nil {
		return nil, err
	}
	return &MemoryLimiter{
		c:    gocache.New(rule.Window, 2*rule.Window),
		rule: rule,
		now:  time.Now,
	}, nil
}

func (l *MemoryLimiter) Allow(_ context.Context, key string) (Result, error) {
	now := l.now().UTC()
	k, left := windowKey("", key, l.rule.Window, now)

	var hits int64 = 1
	if err := l.c.Add(k, int64(1), left); err != nil {
		// ya existe: incrementar. Si venció entre Add e Increment, reabrir la ventana.
		n, ierr := l.c.IncrementInt64(k, 1)
		if ierr != nil {
			l.c.Set(k, int64(1), left)
			n = 1
		}
		hits = n
	}
	return decide(hits, int64(l.rule.Limit), left), nil
}
