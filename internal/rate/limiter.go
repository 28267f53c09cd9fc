// Package rate implementa límites fixed-window por clave.
//
// Dos backends: Redis (varios nodos comparten contadores) y memoria (go-cache,
// un solo proceso). Los dos cuentan igual: la ventana arranca en
// now.Truncate(window) y la clave incluye ese inicio.
package rate

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Result es la decisión para un hit.
type Result struct {
	Allowed     bool
	Remaining   int64
	RetryAfter  time.Duration
	WindowTTL   time.Duration
	CurrentHits int64
	Limit       int64
}

// Limiter decide si un hit más entra en la ventana actual.
type Limiter interface {
	Allow(ctx context.Context, key string) (Result, error)
}

// Rule es un límite por ventana.
type Rule struct {
	Limit  int
	Window time.Duration
}

func (r Rule) valid() error {
	if r.Limit <= 0 || r.Window <= 0 {
		return fmt.Errorf("rate: invalid rule limit=%d window=%s", r.Limit, r.Window)
	}
	return nil
}

// windowKey arma la clave de la ventana que contiene now y el tiempo que le queda.
func windowKey(prefix, key string, window time.Duration, now time.Time) (string, time.Duration) {
	start := now.Truncate(window)
	k := fmt.Sprintf("%s%s:%d", prefix, strings.ReplaceAll(key, " ", "_"), start.Unix())
	return k, start.Add(window).Sub(now)
}

func decide(hits, limit int64, left time.Duration) Result {
	res := Result{
		Allowed:     hits <= limit,
		Remaining:   max(limit-hits, 0),
		CurrentHits: hits,
		WindowTTL:   left,
		Limit:       limit,
	}
	if !res.Allowed {
		res.RetryAfter = left
	}
	return res
}
