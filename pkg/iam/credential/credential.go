// Package credential hashes and verifies tenant secrets and passwords.
package credential

import (
	"net/http"

	"github.com/Abraxas-365/cauth/pkg/errx"
)

// Hasher is a one-way, salted hash with a constant-time verify.
type Hasher interface {
	// Hash returns a self-describing encoded hash. Empty input is valid.
	Hash(plaintext string) (string, error)

	// Verify reports whether plaintext matches encoded. Malformed or
	// foreign hashes yield false, never an error.
	Verify(plaintext, encoded string) bool
}

var ErrRegistry = errx.NewRegistry("CREDENTIAL")

var (
	CodeHashFailed    = ErrRegistry.Register("HASH_FAILED", errx.TypeInternal, http.StatusInternalServerError, "Failed to hash credential")
	CodeInvalidParams = ErrRegistry.Register("INVALID_PARAMS", errx.TypeValidation, http.StatusInternalServerError, "Invalid hashing parameters")
)
