package helpers

import (
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"

	httperrors "github.com/Rock1274/MiniBodegaWeb/internal/http/v2/errors"
)

// MaxBodyBytes limita el body de los formularios de auth.
const MaxBodyBytes = 64 << 10

// FormBinder es un DTO que se puede llenar desde un formulario.
type FormBinder interface {
	BindForm(v url.Values)
}

func isJSONContent(r *http.Request) bool {
	mt, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return mt == "application/json"
}

// WantsJSON indica si el cliente espera JSON en vez de redirects.
func WantsJSON(r *http.Request) bool {
	if isJSONContent(r) {
		return true
	}
	for _, part := range strings.Split(r.Header.Get("Accept"), ",") {
		mt, _, _ := mime.ParseMediaType(strings.TrimSpace(part))
		if mt == "application/json" {
			return true
		}
	}
	return false
}

// ReadInput llena v desde JSON o desde un formulario según el Content-Type.
// JSON se decodifica de forma tolerante (campos desconocidos se ignoran).
func ReadInput(w http.ResponseWriter, r *http.Request, v FormBinder) error {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)
	defer r.Body.Close()

	if isJSONContent(r) {
		if err := json.NewDecoder(r.Body).Decode(v); err != nil && !errors.Is(err, io.EOF) {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				return httperrors.ErrBodyTooLarge
			}
			return httperrors.ErrInvalidJSON.WithCause(err)
		}
		return nil
	}

	if err := r.ParseForm(); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return httperrors.ErrBodyTooLarge
		}
		return httperrors.ErrBadRequest.WithCause(err)
	}
	v.BindForm(r.PostForm)
	return nil
}

// WriteJSON escribe una respuesta JSON estándar.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
