// Package code genera códigos numéricos de verificación.
package code

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// DefaultLength es el largo de los códigos de recuperación.
const DefaultLength = 6

// Generate devuelve length dígitos decimales elegidos uniformemente con crypto/rand.
// Conserva ceros a la izquierda.
func Generate(length int) (string, error) {
	if length <= 0 || length > 18 {
		return "", fmt.Errorf("code: invalid length %d", length)
	}
	max := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(length)), nil)
	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", fmt.Errorf("code: rand: %w", err)
	}
	return fmt.Sprintf("%0*d", length, n.Int64()), nil
}
