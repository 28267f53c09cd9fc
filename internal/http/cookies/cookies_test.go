package cookies

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseSameSite(t *testing.T) {
	cases := map[string]http.SameSite{
		"":        http.SameSiteLaxMode,
		"Lax":     http.SameSiteLaxMode,
		"STRICT":  http.SameSiteStrictMode,
		" none ":  http.SameSiteNoneMode,
		"bogus":   http.SameSiteLaxMode,
	}
	for in, want := range cases {
		assert.Equal(t, want, ParseSameSite(in), in)
	}
}

func TestBuild(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	a := Attrs{SameSite: http.SameSiteLaxMode, HTTPOnly: true}

	ck := Build("recuerdame_usuario", "ana", a, 30*24*time.Hour, now)
	assert.Equal(t, "/", ck.Path)
	assert.Equal(t, now.Add(30*24*time.Hour), ck.Expires)
	assert.Equal(t, 30*24*3600, ck.MaxAge)
	assert.True(t, ck.HttpOnly)
	assert.False(t, ck.Secure)

	sess := Build("session", "x", a, 0, now)
	assert.True(t, sess.Expires.IsZero())
	assert.Zero(t, sess.MaxAge)
}

func TestDeletion(t *testing.T) {
	ck := Deletion("recuerdame_tipo", Attrs{Domain: "example.com"})
	assert.Equal(t, -1, ck.MaxAge)
	assert.Empty(t, ck.Value)
	assert.Equal(t, "example.com", ck.Domain)
	assert.True(t, ck.Expires.Before(time.Unix(1, 0)))
}
