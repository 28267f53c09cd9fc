package helpers

import (
	"net/http"

	dto "github.com/Rock1274/MiniBodegaWeb/internal/http/v2/dto/step"
	httperrors "github.com/Rock1274/MiniBodegaWeb/internal/http/v2/errors"
	"github.com/Rock1274/MiniBodegaWeb/internal/session"
)

// Redirect responde 303 para que el navegador haga GET del siguiente paso.
func Redirect(w http.ResponseWriter, r *http.Request, to string) {
	http.Redirect(w, r, to, http.StatusSeeOther)
}

// Success cierra un paso exitoso. Un cliente JSON recibe el resultado en el
// body; un formulario recibe el mensaje como flash y un redirect a next.
func Success(w http.ResponseWriter, r *http.Request, sess *session.Session, next, category, message string) {
	if WantsJSON(r) {
		resp := dto.Response{OK: true, Next: next, Message: message, Category: category}
		if sess != nil {
			resp.Authenticated = sess.Authenticated()
			resp.Username = sess.Username
			resp.Role = sess.Role
		}
		WriteJSON(w, http.StatusOK, resp)
		return
	}
	if message != "" && sess != nil {
		sess.AddFlash(category, message)
	}
	Redirect(w, r, next)
}

// Fail cierra un paso fallido. Sin Next (o con cliente JSON) se responde
// el error; si no, flash "danger" y redirect al paso indicado.
func Fail(w http.ResponseWriter, r *http.Request, sess *session.Session, err error) {
	appErr := httperrors.FromError(err)
	if WantsJSON(r) || appErr.Next == "" || sess == nil {
		httperrors.WriteError(w, appErr)
		return
	}
	sess.AddFlash(session.FlashDanger, appErr.Message)
	Redirect(w, r, appErr.Next)
}

// State responde el GET de un paso: estado actual y flashes pendientes.
func State(w http.ResponseWriter, sess *session.Session, step string) {
	resp := dto.Response{OK: true, Step: step}
	if sess != nil {
		resp.Flashes = sess.PopFlashes()
		resp.Authenticated = sess.Authenticated()
		resp.Username = sess.Username
		resp.Role = sess.Role
	}
	WriteJSON(w, http.StatusOK, resp)
}
