// Package step contiene la respuesta común de los pasos de login y recuperación.
package step

import "github.com/Rock1274/MiniBodegaWeb/internal/session"

// Response es lo que recibe un cliente JSON en cada paso.
// En los GET incluye los flashes pendientes, que quedan consumidos.
type Response struct {
	OK       bool            `json:"ok"`
	Step     string          `json:"step,omitempty"`
	Next     string          `json:"next,omitempty"`
	Message  string          `json:"message,omitempty"`
	Category string          `json:"category,omitempty"`
	Flashes  []session.Flash `json:"flashes,omitempty"`

	Authenticated bool   `json:"authenticated"`
	Username      string `json:"usuario,omitempty"`
	Role          string `json:"tipo,omitempty"`
}
