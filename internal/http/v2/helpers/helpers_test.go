package helpers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	httperrors "github.com/Rock1274/MiniBodegaWeb/internal/http/v2/errors"
	"github.com/Rock1274/MiniBodegaWeb/internal/http/v2/services/common"
	"github.com/Rock1274/MiniBodegaWeb/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Email string `json:"email"`
}

func (s *sample) BindForm(v url.Values) { s.Email = v.Get("email") }

func TestWantsJSON(t *testing.T) {
	tests := []struct {
		accept, ctype string
		want          bool
	}{
		{"", "", false},
		{"text/html,application/xhtml+xml", "application/x-www-form-urlencoded", false},
		{"application/json", "", true},
		{"text/html, application/json;q=0.9", "", true},
		{"", "application/json; charset=utf-8", true},
	}
	for _, tc := range tests {
		r := httptest.NewRequest(http.MethodPost, "/x", nil)
		r.Header.Set("Accept", tc.accept)
		r.Header.Set("Content-Type", tc.ctype)
		if got := WantsJSON(r); got != tc.want {
			t.Fatalf("accept=%q ctype=%q: got %v want %v", tc.accept, tc.ctype, got, tc.want)
		}
	}
}

func TestReadInput(t *testing.T) {
	t.Run("form", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/x", strings.NewReader("email=a%40b.com"))
		r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		var s sample
		require.NoError(t, ReadInput(httptest.NewRecorder(), r, &s))
		assert.Equal(t, "a@b.com", s.Email)
	})

	t.Run("json", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/x", strings.NewReader(`{"email":"c@d.com","extra":1}`))
		r.Header.Set("Content-Type", "application/json")
		var s sample
		require.NoError(t, ReadInput(httptest.NewRecorder(), r, &s))
		assert.Equal(t, "c@d.com", s.Email)
	})

	t.Run("bad json", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/x", strings.NewReader(`{"email":`))
		r.Header.Set("Content-Type", "application/json")
		var s sample
		err := ReadInput(httptest.NewRecorder(), r, &s)
		assert.Equal(t, "INVALID_JSON", httperrors.FromError(err).Code)
	})

	t.Run("too large", func(t *testing.T) {
		body := `{"email":"` + strings.Repeat("a", MaxBodyBytes) + `"}`
		r := httptest.NewRequest(http.MethodPost, "/x", strings.NewReader(body))
		r.Header.Set("Content-Type", "application/json")
		var s sample
		err := ReadInput(httptest.NewRecorder(), r, &s)
		assert.Equal(t, "BODY_TOO_LARGE", httperrors.FromError(err).Code)
	})
}

func TestServiceError(t *testing.T) {
	assert.Equal(t, httperrors.ErrSecretMismatch, ServiceError(common.ErrSecretMismatch, "/x"))
	assert.Equal(t, "/recuperar_contrasena", ServiceError(common.ErrFlowStateExpired, "/x").Next)

	store := ServiceError(common.ErrStoreUnavailable, "/verificar_codigo")
	assert.Equal(t, "STORE_UNAVAILABLE", store.Code)
	assert.Equal(t, "/verificar_codigo", store.Next)

	other := ServiceError(errors.New("boom"), "/login")
	assert.Equal(t, http.StatusInternalServerError, other.HTTPStatus)
	assert.Equal(t, "/login", other.Next)
}

func TestSuccessAndFail(t *testing.T) {
	t.Run("form success flashes and redirects", func(t *testing.T) {
		sess := session.New()
		r := httptest.NewRequest(http.MethodPost, "/verificar_codigo", nil)
		w := httptest.NewRecorder()
		Success(w, r, sess, "/reset_contrasena", session.FlashSuccess, "ok")

		assert.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, "/reset_contrasena", w.Header().Get("Location"))
		assert.Equal(t, []session.Flash{{Category: "success", Message: "ok"}}, sess.Flashes)
	})

	t.Run("json success", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/login", nil)
		r.Header.Set("Accept", "application/json")
		w := httptest.NewRecorder()
		Success(w, r, session.New(), "/", "", "")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"ok":true,"next":"/","authenticated":false}`, w.Body.String())
	})

	t.Run("form failure flashes danger", func(t *testing.T) {
		sess := session.New()
		r := httptest.NewRequest(http.MethodPost, "/reset_contrasena", nil)
		w := httptest.NewRecorder()
		Fail(w, r, sess, httperrors.ErrSecretMismatch)

		assert.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, "/reset_contrasena", w.Header().Get("Location"))
		require.Len(t, sess.Flashes, 1)
		assert.Equal(t, session.FlashDanger, sess.Flashes[0].Category)
	})

	t.Run("json failure", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/verificar_codigo", nil)
		r.Header.Set("Accept", "application/json")
		w := httptest.NewRecorder()
		Fail(w, r, session.New(), httperrors.ErrInvalidOrExpiredCode)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), `"next":"/verificar_codigo"`)
	})
}

func TestState_PopsFlashes(t *testing.T) {
	sess := session.New()
	sess.AddFlash(session.FlashInfo, "hola")
	w := httptest.NewRecorder()
	State(w, sess, "login")

	assert.Contains(t, w.Body.String(), `"hola"`)
	assert.Empty(t, sess.Flashes)
}
