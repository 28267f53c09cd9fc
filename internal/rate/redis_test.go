package rate

import (
	"context"
	"testing"
	"time"

	rdb "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisLimiter_Unreachable(t *testing.T) {
	client := rdb.NewClient(&rdb.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 200 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()

	l, err := NewRedisLimiter(client, "test:", Rule{Limit: 1, Window: time.Minute})
	require.NoError(t, err)

	_, err = l.Allow(context.Background(), "k")
	assert.Error(t, err, "caller decides to fail open")
	assert.Error(t, Ping(context.Background(), client))
}

func TestWindowKey(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 45, 0, time.UTC)
	k, left := windowKey("p:", "1.2.3.4 /login", time.Minute, now)
	assert.Equal(t, "p:1.2.3.4_/login:1772366400", k)
	assert.Equal(t, 15*time.Second, left)
}
