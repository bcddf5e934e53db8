package utils

import (
	"crypto/rand"
	"fmt"
)

// RandomColor returns a random badge color in the form #RRGGBB.
func RandomColor() (string, error) {
	b := make([]byte, 3)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}
	return fmt.Sprintf("#%02X%02X%02X", b[0], b[1], b[2]), nil
}
