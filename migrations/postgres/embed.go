// Package migrations embebe las migraciones SQL de PostgreSQL (formato goose).
package migrations

import "embed"

// FS contiene los archivos NNNNN_nombre.sql en la raíz.
//
//go:embed *.sql
var FS embed.FS
