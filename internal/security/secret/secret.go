// Package secret implementa la codificación de contraseñas que comparte la tabla usuario.
//
// El formato es base64 estándar de los bytes UTF-16LE de la contraseña, sin BOM.
// Es reversible y determinístico: no es un hash. Se mantiene porque el resto del
// sistema MiniBodega escribe y compara ese mismo formato.
package secret

import (
	"encoding/base64"
	"fmt"
	"strings"

	"golang.org/x/text/encoding/unicode"
)

var utf16le = unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)

// Encode codifica plain. UTF-8 inválido se reemplaza por U+FFFD antes de codificar.
func Encode(plain string) string {
	b, err := utf16le.NewEncoder().Bytes([]byte(strings.ToValidUTF8(plain, "�")))
	if err != nil {
		// con UTF-8 válido el encoder no falla
		return ""
	}
	return base64.StdEncoding.EncodeToString(b)
}

// Decode revierte Encode. Lo usa el CLI de administración.
func Decode(encoded string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(strings.TrimSpace(encoded))
	if err != nil {
		return "", fmt.Errorf("secret: base64: %w", err)
	}
	if len(raw)%2 != 0 {
		return "", fmt.Errorf("secret: odd UTF-16 length %d", len(raw))
	}
	out, err := utf16le.NewDecoder().Bytes(raw)
	if err != nil {
		return "", fmt.Errorf("secret: utf-16: %w", err)
	}
	return string(out), nil
}
