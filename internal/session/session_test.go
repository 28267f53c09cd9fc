package session

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSession_ResetFlags(t *testing.T) {
	s := New()
	s.StartReset("ana@x.com")
	s.MarkResetVerified()
	assert.True(t, s.ResetVerified)

	// reiniciar el flujo descarta la verificación previa
	s.StartReset("otra@x.com")
	assert.False(t, s.ResetVerified)
	assert.Equal(t, "otra@x.com", s.ResetEmail)

	s.ClearReset()
	assert.Empty(t, s.ResetEmail)
	assert.False(t, s.ResetVerified)
}

func TestSession_KeysAndValues(t *testing.T) {
	s := New()
	assert.Empty(t, s.Keys())

	s.SetIdentity("ana", "Admin", 7)
	s.StartReset("ana@x.com")
	assert.Equal(t, []string{"reset_email", "tipo", "user_id", "usuario"}, s.Keys())
	assert.Equal(t, "7", s.Values()["user_id"])
}

func TestSession_ClearKeepsOrigin(t *testing.T) {
	s := &Session{Username: "ana", fromCookie: true}
	s.Clear()
	assert.False(t, s.Authenticated())
	assert.True(t, s.fromCookie)
	assert.True(t, s.Modified())
}

func TestContext(t *testing.T) {
	assert.Nil(t, FromContext(context.Background()))

	s := New()
	ctx := ToContext(context.Background(), s)
	assert.Same(t, s, FromContext(ctx))
}
