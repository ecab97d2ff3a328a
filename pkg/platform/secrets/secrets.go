// Package secrets generates, compares and derives operator secrets.
package secrets

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"

	dErrors "auditgate/pkg/domain-errors"
)

// Generate creates a cryptographically secure random secret.
// Returns a base64-encoded string suitable for admin keys and token secrets.
func Generate() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("could not generate secret: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// Equal compares a presented secret against the expected one in constant time.
// An empty expected secret never matches.
func Equal(presented, expected string) bool {
	if expected == "" || presented == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(presented), []byte(expected)) == 1
}

// DeriveKey expands a master secret into a purpose-bound key with HKDF-SHA256,
// so one operator secret never signs two kinds of artifacts with the same bytes.
func DeriveKey(master, purpose string, size int) ([]byte, error) {
	if master == "" {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "master secret cannot be empty")
	}
	if size <= 0 {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "derived key size must be positive")
	}
	key := make([]byte, size)
	r := hkdf.New(sha256.New, []byte(master), nil, []byte(purpose))
	if _, err := io.ReadFull(r, key); err != nil {
		return nil, fmt.Errorf("could not derive key: %w", err)
	}
	return key, nil
}
