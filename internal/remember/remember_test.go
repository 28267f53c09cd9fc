package remember

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func historic() *Cookies {
	return New(Options{HTTPOnly: true, SameSite: http.SameSiteLaxMode})
}

func TestIssue_HistoricAttributes(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	rec := httptest.NewRecorder()
	historic().Issue(rec, TokenFor("ana", "Admin", 7), now)

	got := map[string]*http.Cookie{}
	for _, ck := range rec.Result().Cookies() {
		got[ck.Name] = ck
	}
	require.Len(t, got, 3)
	assert.Equal(t, "ana", got["recuerdame_usuario"].Value)
	assert.Equal(t, "Admin", got["recuerdame_tipo"].Value)
	assert.Equal(t, "7", got["recuerdame_user_id"].Value)
	for _, ck := range got {
		assert.True(t, ck.HttpOnly)
		assert.False(t, ck.Secure)
		assert.Equal(t, 30*24*3600, ck.MaxAge)
		assert.Equal(t, "/", ck.Path)
	}
}

func TestRead_RequiresAllThree(t *testing.T) {
	c := historic()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "recuerdame_usuario", Value: "ana"})
	req.AddCookie(&http.Cookie{Name: "recuerdame_tipo", Value: "Admin"})
	_, ok := c.Read(req)
	assert.False(t, ok)

	req.AddCookie(&http.Cookie{Name: "recuerdame_user_id", Value: "7"})
	tok, ok := c.Read(req)
	assert.True(t, ok)
	assert.Equal(t, Token{Username: "ana", Role: "Admin", UserID: "7"}, tok)
}

func TestClear(t *testing.T) {
	rec := httptest.NewRecorder()
	historic().Clear(rec)

	cks := rec.Result().Cookies()
	require.Len(t, cks, 3)
	for _, ck := range cks {
		assert.Empty(t, ck.Value)
		assert.Equal(t, -1, ck.MaxAge)
	}
}

func TestRaw(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "recuerdame_usuario", Value: "ana"})

	raw := historic().Raw(req)
	require.NotNil(t, raw["recuerdame_usuario"])
	assert.Equal(t, "ana", *raw["recuerdame_usuario"])
	assert.Nil(t, raw["recuerdame_tipo"])
}

func TestNew_CustomNamesAndTTL(t *testing.T) {
	c := New(Options{UsernameCookie: "u", RoleCookie: "r", UserIDCookie: "i", TTL: time.Hour, Secure: true})
	assert.Equal(t, []string{"u", "r", "i"}, c.Names())

	rec := httptest.NewRecorder()
	c.Issue(rec, TokenFor("ana", "Admin", 7), time.Now())
	for _, ck := range rec.Result().Cookies() {
		assert.Equal(t, 3600, ck.MaxAge)
		assert.True(t, ck.Secure)
		assert.False(t, ck.HttpOnly)
	}
}
