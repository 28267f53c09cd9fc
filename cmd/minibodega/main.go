// Comando minibodega: servidor de login y recuperación de contraseña,
// más utilidades de operación (migraciones, secretos, prueba de mail).
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
