package appv2

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Rock1274/MiniBodegaWeb/internal/domain/repository"
	"github.com/Rock1274/MiniBodegaWeb/internal/domain/repository/repotest"
	"github.com/Rock1274/MiniBodegaWeb/internal/email"
	debugdto "github.com/Rock1274/MiniBodegaWeb/internal/http/v2/dto/debug"
	stepdto "github.com/Rock1274/MiniBodegaWeb/internal/http/v2/dto/step"
	"github.com/Rock1274/MiniBodegaWeb/internal/http/v2/router"
	healthsvc "github.com/Rock1274/MiniBodegaWeb/internal/http/v2/services/health"
	"github.com/Rock1274/MiniBodegaWeb/internal/rate"
	"github.com/Rock1274/MiniBodegaWeb/internal/remember"
	"github.com/Rock1274/MiniBodegaWeb/internal/security/secret"
	"github.com/Rock1274/MiniBodegaWeb/internal/session"
)

var t0 = time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

type capturingDispatcher struct {
	mu    sync.Mutex
	err   error
	codes []string
}

func (d *capturingDispatcher) Send(_ context.Context, _ string, msg email.CodeMessage) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.err != nil {
		return d.err
	}
	d.codes = append(d.codes, msg.Code)
	return nil
}

func (d *capturingDispatcher) last() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.codes[len(d.codes)-1]
}

type env struct {
	t      *testing.T
	now    time.Time
	users  *repotest.Users
	tokens *repotest.Tokens
	disp   *capturingDispatcher
	h      http.Handler
}

type option func(*Config, *Deps)

func newEnv(t *testing.T, opts ...option) *env {
	t.Helper()
	e := &env{
		t:   t,
		now: t0,
		users: repotest.NewUsers(repository.User{
			ID: 7, Username: "ana", EncodedSecret: secret.Encode("abc"),
			Email: "ana@x.com", Role: "Administrador", DisplayName: "Ana Pérez",
		}),
		tokens: repotest.NewTokens(),
		disp:   &capturingDispatcher{},
	}
	clock := func() time.Time { return e.now }

	codec, err := session.NewCodec(session.Options{CookieName: "session", Secret: "0123456789abcdef0123456789abcdef"})
	require.NoError(t, err)

	cfg := Config{Debug: true}
	deps := Deps{
		Users:      e.users,
		Tokens:     e.tokens,
		Dispatcher: e.disp,
		Codec:      codec.WithClock(clock),
		Cookies:    remember.New(remember.Options{HTTPOnly: true}),
		Clock:      clock,
		HealthDeps: healthsvc.Deps{DBCheck: func(context.Context) error { return nil }},
	}
	for _, o := range opts {
		o(&cfg, &deps)
	}

	app, err := New(cfg, deps)
	require.NoError(t, err)
	e.h = app.Handler
	return e
}

// client lleva las cookies entre requests como un navegador.
type client struct {
	e      *env
	jar    map[string]string
	header http.Header
}

func (e *env) client() *client {
	return &client{e: e, jar: map[string]string{}, header: http.Header{}}
}

func (c *client) do(method, path string, form url.Values, wantJSON bool) *httptest.ResponseRecorder {
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	r := httptest.NewRequest(method, path, body)
	if form != nil {
		r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	if wantJSON {
		r.Header.Set("Accept", "application/json")
	}
	for k, vs := range c.header {
		for _, v := range vs {
			r.Header.Add(k, v)
		}
	}
	for name, v := range c.jar {
		r.AddCookie(&http.Cookie{Name: name, Value: v})
	}

	w := httptest.NewRecorder()
	c.e.h.ServeHTTP(w, r)

	for _, ck := range w.Result().Cookies() {
		if ck.MaxAge < 0 {
			delete(c.jar, ck.Name)
			continue
		}
		c.jar[ck.Name] = ck.Value
	}
	return w
}

func (c *client) post(path string, form url.Values) *httptest.ResponseRecorder {
	return c.do(http.MethodPost, path, form, false)
}

func (c *client) state(path string) (int, stepdto.Response) {
	w := c.do(http.MethodGet, path, nil, true)
	var resp stepdto.Response
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	return w.Code, resp
}

func messages(fl []session.Flash) []string {
	out := make([]string, 0, len(fl))
	for _, f := range fl {
		out = append(out, f.Message)
	}
	return out
}

func TestLogin_FormSuccessWithRemember(t *testing.T) {
	e := newEnv(t)
	c := e.client()

	w := c.post("/login", url.Values{"nusuario": {"ana"}, "contrasena": {"abc"}, "recuerdame": {"on"}})
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))

	byName := map[string]*http.Cookie{}
	for _, ck := range w.Result().Cookies() {
		byName[ck.Name] = ck
	}
	for name, want := range map[string]string{
		"recuerdame_usuario": "ana",
		"recuerdame_tipo":    "Administrador",
		"recuerdame_user_id": "7",
	} {
		ck := byName[name]
		require.NotNil(t, ck, name)
		assert.Equal(t, want, ck.Value)
		assert.True(t, ck.HttpOnly, name)
		assert.False(t, ck.Secure, name)
		assert.WithinDuration(t, t0.Add(30*24*time.Hour), ck.Expires, time.Second)
	}
	require.NotNil(t, byName["session"])
	assert.True(t, byName["session"].Expires.IsZero(), "cookie de sesión del navegador")

	// con sesión activa, /login manda al inicio
	w = c.do(http.MethodGet, "/login", nil, false)
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))
}

func TestLogin_NoRememberIssuesNoCookies(t *testing.T) {
	e := newEnv(t)
	c := e.client()

	c.post("/login", url.Values{"nusuario": {"ana"}, "contrasena": {"abc"}})
	assert.Contains(t, c.jar, "session")
	assert.NotContains(t, c.jar, "recuerdame_usuario")
}

func TestLogin_FailuresAreIndistinguishable(t *testing.T) {
	e := newEnv(t)

	results := map[string][]string{}
	for name, form := range map[string]url.Values{
		"wrong secret": {"nusuario": {"ana"}, "contrasena": {"zzz"}},
		"unknown user": {"nusuario": {"nadie"}, "contrasena": {"abc"}},
	} {
		c := e.client()
		w := c.post("/login", form)
		require.Equal(t, http.StatusSeeOther, w.Code, name)
		require.Equal(t, "/login", w.Header().Get("Location"), name)

		code, st := c.state("/login")
		require.Equal(t, http.StatusOK, code)
		assert.False(t, st.Authenticated)
		results[name] = messages(st.Flashes)
	}
	assert.Equal(t, []string{"Nombre de usuario o contraseña incorrectos"}, results["wrong secret"])
	assert.Equal(t, results["wrong secret"], results["unknown user"])
}

func TestLogin_JSON(t *testing.T) {
	e := newEnv(t)

	r := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(`{"nusuario":"ana","contrasena":"zzz"}`))
	r.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	e.h.ServeHTTP(w, r)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), `"code":"INVALID_CREDENTIALS"`)

	r = httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(`{"nusuario":"ana","contrasena":"abc"}`))
	r.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	e.h.ServeHTTP(w, r)
	require.Equal(t, http.StatusOK, w.Code)
	var resp stepdto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.OK)
	assert.Equal(t, "Administrador", resp.Role)
}

func TestRestore_FromRememberCookies(t *testing.T) {
	e := newEnv(t)

	browser := func() *client {
		c := e.client()
		// rol e id de la cookie se ignoran: se leen del store
		c.jar["recuerdame_usuario"] = "ana"
		c.jar["recuerdame_tipo"] = "Cliente"
		c.jar["recuerdame_user_id"] = "999"
		return c
	}

	_, st := browser().state("/recuperar_contrasena")
	assert.True(t, st.Authenticated)
	assert.Equal(t, "Administrador", st.Role)

	e.users.SetRole("ana", "Vendedor")
	_, st = browser().state("/recuperar_contrasena")
	assert.Equal(t, "Vendedor", st.Role)

	// incompleto: no restaura
	c := e.client()
	c.jar["recuerdame_usuario"] = "ana"
	_, st = c.state("/recuperar_contrasena")
	assert.False(t, st.Authenticated)

	// /login restaura por su cuenta y redirige
	w := browser().do(http.MethodGet, "/login", nil, false)
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))
}

func TestRestore_StoreErrorDegradesToAnonymous(t *testing.T) {
	e := newEnv(t)
	e.users.Err = repository.ErrStoreUnavailable

	c := e.client()
	c.jar["recuerdame_usuario"] = "ana"
	c.jar["recuerdame_tipo"] = "x"
	c.jar["recuerdame_user_id"] = "1"
	code, st := c.state("/recuperar_contrasena")
	assert.Equal(t, http.StatusOK, code)
	assert.False(t, st.Authenticated)
}

func TestResetFlow_EndToEnd(t *testing.T) {
	e := newEnv(t)
	c := e.client()

	w := c.post("/recuperar_contrasena", url.Values{"email": {" ana@x.com "}})
	require.Equal(t, http.StatusSeeOther, w.Code)
	require.Equal(t, "/verificar_codigo", w.Header().Get("Location"))

	code, st := c.state("/verificar_codigo")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, []string{
		"Email ingresado: ana@x.com",
		"Código de verificación enviado a tu email, Ana Pérez",
	}, messages(st.Flashes))

	e.now = t0.Add(9 * time.Minute)
	w = c.post("/verificar_codigo", url.Values{"codigo": {e.disp.last()}})
	require.Equal(t, "/reset_contrasena", w.Header().Get("Location"))

	code, _ = c.state("/reset_contrasena")
	require.Equal(t, http.StatusOK, code)

	w = c.post("/reset_contrasena", url.Values{"nueva_contrasena": {"nueva"}, "confirmar_contrasena": {"nueva"}})
	require.Equal(t, "/login", w.Header().Get("Location"))

	_, st = c.state("/login")
	assert.Equal(t, []string{"Contraseña actualizada exitosamente. Ahora puedes iniciar sesión."}, messages(st.Flashes))

	u, _ := e.users.Get("ana")
	assert.Equal(t, secret.Encode("nueva"), u.EncodedSecret)

	// el flujo volvió a Start
	w = c.do(http.MethodGet, "/reset_contrasena", nil, false)
	assert.Equal(t, "/recuperar_contrasena", w.Header().Get("Location"))

	// y la contraseña nueva sirve para entrar
	w = c.post("/login", url.Values{"nusuario": {"ana"}, "contrasena": {"nueva"}})
	assert.Equal(t, "/", w.Header().Get("Location"))
}

func TestResetFlow_ExpiredCodeKeepsState(t *testing.T) {
	e := newEnv(t)
	c := e.client()

	c.post("/recuperar_contrasena", url.Values{"email": {"ana@x.com"}})
	e.now = t0.Add(11 * time.Minute)

	w := c.post("/verificar_codigo", url.Values{"codigo": {e.disp.last()}})
	require.Equal(t, "/verificar_codigo", w.Header().Get("Location"))

	code, st := c.state("/verificar_codigo")
	require.Equal(t, http.StatusOK, code, "sigue esperando código")
	assert.Contains(t, messages(st.Flashes), "Código inválido o expirado.")

	w = c.do(http.MethodGet, "/reset_contrasena", nil, false)
	assert.Equal(t, "/recuperar_contrasena", w.Header().Get("Location"))
}

func TestResetFlow_Guards(t *testing.T) {
	e := newEnv(t)

	c := e.client()
	w := c.post("/verificar_codigo", url.Values{"codigo": {"123456"}})
	require.Equal(t, "/recuperar_contrasena", w.Header().Get("Location"))
	_, st := c.state("/recuperar_contrasena")
	assert.Equal(t, []string{"Sesión expirada. Intenta de nuevo."}, messages(st.Flashes))

	w = c.post("/reset_contrasena", url.Values{"nueva_contrasena": {"a"}, "confirmar_contrasena": {"a"}})
	assert.Equal(t, "/recuperar_contrasena", w.Header().Get("Location"))

	r := httptest.NewRequest(http.MethodGet, "/verificar_codigo", nil)
	r.Header.Set("Accept", "application/json")
	rec := httptest.NewRecorder()
	e.h.ServeHTTP(rec, r)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), `"code":"FLOW_STATE_EXPIRED"`)
}

func TestResetFlow_Errors(t *testing.T) {
	tests := []struct {
		name     string
		email    string
		setup    func(e *env)
		wantMsgs []string
	}{
		{
			name:     "invalid format",
			email:    "no-es-email",
			wantMsgs: []string{"Email ingresado: no-es-email", "Formato de email inválido."},
		},
		{
			name:     "not registered",
			email:    "bob@x.com",
			wantMsgs: []string{"Email ingresado: bob@x.com", "Email no registrado."},
		},
		{
			name:     "delivery failure",
			email:    "ana@x.com",
			setup:    func(e *env) { e.disp.err = errors.New("535 auth") },
			wantMsgs: []string{"Email ingresado: ana@x.com", "Error al enviar el email. Verifica credenciales de Gmail."},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			e := newEnv(t)
			if tc.setup != nil {
				tc.setup(e)
			}
			c := e.client()
			w := c.post("/recuperar_contrasena", url.Values{"email": {tc.email}})
			require.Equal(t, "/recuperar_contrasena", w.Header().Get("Location"))

			_, st := c.state("/recuperar_contrasena")
			assert.Equal(t, tc.wantMsgs, messages(st.Flashes))

			// no avanzó
			w = c.do(http.MethodGet, "/verificar_codigo", nil, false)
			assert.Equal(t, "/recuperar_contrasena", w.Header().Get("Location"))
		})
	}
}

func TestResetFlow_SecretMismatch(t *testing.T) {
	e := newEnv(t)
	c := e.client()

	c.post("/recuperar_contrasena", url.Values{"email": {"ana@x.com"}})
	c.post("/verificar_codigo", url.Values{"codigo": {e.disp.last()}})

	w := c.post("/reset_contrasena", url.Values{"nueva_contrasena": {"a"}, "confirmar_contrasena": {"b"}})
	require.Equal(t, "/reset_contrasena", w.Header().Get("Location"))

	u, _ := e.users.Get("ana")
	assert.Equal(t, secret.Encode("abc"), u.EncodedSecret)

	code, st := c.state("/reset_contrasena")
	assert.Equal(t, http.StatusOK, code)
	assert.Contains(t, messages(st.Flashes), "Las contraseñas no coinciden.")
}

func TestResetFlow_StoreUnavailable(t *testing.T) {
	e := newEnv(t)
	e.users.Err = repository.ErrStoreUnavailable

	r := httptest.NewRequest(http.MethodPost, "/recuperar_contrasena", strings.NewReader(`{"email":"ana@x.com"}`))
	r.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	e.h.ServeHTTP(w, r)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), `"next":"/recuperar_contrasena"`)
	assert.NotContains(t, w.Body.String(), "store unavailable")
}

func TestLogout_Twice(t *testing.T) {
	e := newEnv(t)
	c := e.client()
	c.post("/login", url.Values{"nusuario": {"ana"}, "contrasena": {"abc"}, "recuerdame": {"1"}})
	require.Contains(t, c.jar, "recuerdame_usuario")

	for i := 0; i < 2; i++ {
		w := c.do(http.MethodGet, "/logout", nil, false)
		require.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, "/login", w.Header().Get("Location"))
	}
	assert.NotContains(t, c.jar, "recuerdame_usuario")
	assert.NotContains(t, c.jar, "recuerdame_tipo")
	assert.NotContains(t, c.jar, "recuerdame_user_id")
	assert.NotContains(t, c.jar, "session")

	_, st := c.state("/login")
	assert.False(t, st.Authenticated)
}

func TestRememberSurvivesReset(t *testing.T) {
	e := newEnv(t)
	c := e.client()
	c.post("/login", url.Values{"nusuario": {"ana"}, "contrasena": {"abc"}, "recuerdame": {"1"}})

	other := e.client()
	other.post("/recuperar_contrasena", url.Values{"email": {"ana@x.com"}})
	other.post("/verificar_codigo", url.Values{"codigo": {e.disp.last()}})
	other.post("/reset_contrasena", url.Values{"nueva_contrasena": {"x"}, "confirmar_contrasena": {"x"}})

	// sin revocación: las cookies siguen restaurando
	delete(c.jar, "session")
	_, st := c.state("/recuperar_contrasena")
	assert.True(t, st.Authenticated)
}

func TestDebugEndpoint(t *testing.T) {
	e := newEnv(t)
	c := e.client()
	c.jar["recuerdame_usuario"] = "ana"

	w := c.do(http.MethodGet, "/debug_recuerdame", nil, true)
	require.Equal(t, http.StatusOK, w.Code)
	var resp debugdto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "ana", resp.RememberCookies["recuerdame_usuario"])
	assert.Equal(t, debugdto.NotPresent, resp.RememberCookies["recuerdame_tipo"])
	assert.Contains(t, resp.DBStatus, "Usuario encontrado en BD: ID=7")
	assert.Equal(t, "ana", resp.AllCookies["recuerdame_usuario"])

	disabled := newEnv(t, func(cfg *Config, _ *Deps) { cfg.Debug = false })
	w = disabled.client().do(http.MethodGet, "/debug_recuerdame", nil, true)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRateLimit_Verify(t *testing.T) {
	e := newEnv(t, func(_ *Config, d *Deps) {
		l, err := rate.NewMemoryLimiter(rate.Rule{Limit: 1, Window: time.Minute})
		require.NoError(t, err)
		d.Limiters = router.Limiters{Verify: l}
	})
	c := e.client()

	w := c.post("/verificar_codigo", url.Values{"codigo": {"1"}})
	assert.Equal(t, http.StatusSeeOther, w.Code)

	w = c.post("/verificar_codigo", url.Values{"codigo": {"2"}})
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))

	// GET no cuenta
	w = c.do(http.MethodGet, "/recuperar_contrasena", nil, true)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRateLimit_VerifyIgnoresForwardedForFromUntrustedPeer(t *testing.T) {
	e := newEnv(t, func(_ *Config, d *Deps) {
		l, err := rate.NewMemoryLimiter(rate.Rule{Limit: 1, Window: time.Minute})
		require.NoError(t, err)
		d.Limiters = router.Limiters{Verify: l}
	})
	c := e.client()

	limited := 0
	for i := 0; i < 50; i++ {
		c.header.Set("X-Forwarded-For", "10.0.0."+strconv.Itoa(i))
		if w := c.post("/verificar_codigo", url.Values{"codigo": {"000000"}}); w.Code == http.StatusTooManyRequests {
			limited++
		}
	}
	assert.Equal(t, 49, limited, "rotar X-Forwarded-For no abre buckets nuevos")
}

func TestRateLimit_VerifyPerAccount(t *testing.T) {
	e := newEnv(t, func(c *Config, d *Deps) {
		c.TrustedProxies = []string{"192.0.2.1"}
		perIP, err := rate.NewMemoryLimiter(rate.Rule{Limit: 1, Window: time.Minute})
		require.NoError(t, err)
		perAccount, err := rate.NewMemoryLimiter(rate.Rule{Limit: 3, Window: time.Minute})
		require.NoError(t, err)
		d.Limiters = router.Limiters{Verify: perIP, VerifyEmail: perAccount}
	})

	// detrás del proxy confiable cada cliente tiene su propia IP
	var codes []int
	for i := 1; i <= 4; i++ {
		c := e.client()
		c.header.Set("X-Forwarded-For", "203.0.113."+strconv.Itoa(i))
		w := c.post("/recuperar_contrasena", url.Values{"email": {"ana@x.com"}})
		require.Equal(t, "/verificar_codigo", w.Header().Get("Location"))

		codes = append(codes, c.post("/verificar_codigo", url.Values{"codigo": {"000000"}}).Code)
	}
	assert.Equal(t, []int{http.StatusSeeOther, http.StatusSeeOther, http.StatusSeeOther, http.StatusTooManyRequests}, codes)

	// otra cuenta no comparte el bucket
	e.users.Put(repository.User{ID: 8, Username: "bob", EncodedSecret: secret.Encode("x"), Email: "bob@x.com", Role: "Cliente"})
	c := e.client()
	c.header.Set("X-Forwarded-For", "203.0.113.50")
	c.post("/recuperar_contrasena", url.Values{"email": {"bob@x.com"}})
	w := c.post("/verificar_codigo", url.Values{"codigo": {"000000"}})
	assert.Equal(t, http.StatusSeeOther, w.Code)

	// y la misma IP reenviada sigue limitada por IP
	w = c.post("/verificar_codigo", url.Values{"codigo": {"000000"}})
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
}

func TestHealthAndNoCache(t *testing.T) {
	e := newEnv(t)

	w := e.client().do(http.MethodGet, "/healthz", nil, true)
	assert.Equal(t, http.StatusOK, w.Code)

	w = e.client().do(http.MethodGet, "/readyz", nil, true)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ready"`)

	w = e.client().do(http.MethodGet, "/login", nil, true)
	assert.Contains(t, w.Header().Get("Cache-Control"), "no-store")
	assert.Equal(t, "no-cache", w.Header().Get("Pragma"))
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	w = e.client().do(http.MethodDelete, "/login", nil, true)
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)

	w = e.client().do(http.MethodGet, "/nope", nil, true)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestNew_RequiresDeps(t *testing.T) {
	_, err := New(Config{}, Deps{})
	require.Error(t, err)

	codec, _ := session.NewCodec(session.Options{Secret: "0123456789abcdef"})
	_, err = New(Config{EmailPattern: "("}, Deps{
		Users: repotest.NewUsers(), Tokens: repotest.NewTokens(), Dispatcher: &capturingDispatcher{},
		Codec: codec, Cookies: remember.New(remember.Options{}),
	})
	require.Error(t, err)

	_, err = New(Config{TrustedProxies: []string{"proxy.local"}}, Deps{
		Users: repotest.NewUsers(), Tokens: repotest.NewTokens(), Dispatcher: &capturingDispatcher{},
		Codec: codec, Cookies: remember.New(remember.Options{}),
	})
	require.Error(t, err)
}
