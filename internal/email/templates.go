package email

import (
	"bytes"
	"embed"
	"fmt"
	htmltpl "html/template"
	texttpl "text/template"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// CodeVars son las variables del correo con el código.
type CodeVars struct {
	Subject        string
	Code           string
	DisplayName    string
	TTLMinutes     int
	Signature      string
	SupportAddress string
}

// Templates contiene las dos versiones del correo con el código.
type Templates struct {
	codeHTML *htmltpl.Template
	codeTXT  *texttpl.Template
}

// LoadTemplates parsea los templates embebidos.
func LoadTemplates() (*Templates, error) {
	h, err := htmltpl.ParseFS(templateFS, "templates/code.html.tmpl")
	if err != nil {
		return nil, fmt.Errorf("email: parse html template: %w", err)
	}
	t, err := texttpl.ParseFS(templateFS, "templates/code.txt.tmpl")
	if err != nil {
		return nil, fmt.Errorf("email: parse text template: %w", err)
	}
	return &Templates{codeHTML: h, codeTXT: t}, nil
}

// RenderCode devuelve (html, text).
func (t *Templates) RenderCode(v CodeVars) (string, string, error) {
	var hb, tb bytes.Buffer
	if err := t.codeHTML.Execute(&hb, v); err != nil {
		return "", "", fmt.Errorf("email: render html: %w", err)
	}
	if err := t.codeTXT.Execute(&tb, v); err != nil {
		return "", "", fmt.Errorf("email: render text: %w", err)
	}
	return hb.String(), tb.String(), nil
}
