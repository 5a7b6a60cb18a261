package middleware

import (
	"crypto/sha256"

	"github.com/aretw0/enigma/pkg/domain"
	"golang.org/x/crypto/pbkdf2"
)

const (
	// PBKDF2Iterations follows the OWASP minimum for PBKDF2-HMAC-SHA256.
	PBKDF2Iterations = 600000

	// MinSaltSize is the shortest salt KeyFromPassphrase accepts.
	MinSaltSize = 8
)

// KeyFromPassphrase derives an AES-256 sealing key from a passphrase.
// The same passphrase and salt always give the same key, so replicas and
// restarts can open each other's key sheets.
func KeyFromPassphrase(passphrase string, salt []byte) ([]byte, error) {
	if passphrase == "" {
		return nil, domain.Invalid("passphrase cannot be empty")
	}
	if len(salt) < MinSaltSize {
		return nil, domain.Invalid("salt must be at least %d bytes, got %d", MinSaltSize, len(salt))
	}
	return pbkdf2.Key([]byte(passphrase), salt, PBKDF2Iterations, KeySize, sha256.New), nil
}
