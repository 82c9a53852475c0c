package kernel

import (
	"net/mail"
	"strings"
)

const maxEmailLength = 255

// NormalizeEmail trims and lower-cases an address so lookups and unique
// indexes agree.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidEmail accepts a bare address, not a display-name form.
func ValidEmail(email string) bool {
	if email == "" || len(email) > maxEmailLength {
		return false
	}
	addr, err := mail.ParseAddress(email)
	return err == nil && addr.Address == email
}
