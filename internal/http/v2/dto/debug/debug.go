// Package debug contiene la respuesta de /debug_recuerdame.
package debug

// NotPresent marca un valor ausente, igual que la página de diagnóstico histórica.
const NotPresent = "NO EXISTE"

// SessionInfo es la vista de la sesión actual.
type SessionInfo struct {
	Username    string            `json:"usuario"`
	Role        string            `json:"tipo"`
	UserID      string            `json:"user_id"`
	SessionKeys []string          `json:"session_keys"`
	Values      map[string]string `json:"values"`
}

// Response es el volcado completo.
type Response struct {
	RememberCookies map[string]string `json:"cookies_info"`
	Session         SessionInfo       `json:"session_info"`
	DBStatus        string            `json:"db_status"`
	Status          string            `json:"status"`
	HasValidCookies bool              `json:"has_valid_cookies"`
	HasSession      bool              `json:"has_session"`
	AllCookies      map[string]string `json:"all_cookies"`
}
