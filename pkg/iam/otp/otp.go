// Package otp models single-use codes redeemable at most once before
// they expire. Codes are addressed purely by value inside a purpose
// namespace; they carry an opaque payload and nothing else.
package otp

import (
	"context"
	"time"
)

// Purpose namespaces codes so equal values issued for different flows
// never collide.
type Purpose string

const (
	PurposeAuthExchange  Purpose = "AUTH_EXCHANGE"
	PurposePasswordReset Purpose = "PASSWORD_RESET"
)

func (p Purpose) prefix() string {
	switch p {
	case PurposeAuthExchange:
		return "auth-code"
	case PurposePasswordReset:
		return "reset-password-u"
	default:
		return "otc-" + string(p)
	}
}

// Key is the store key for code under this purpose.
func (p Purpose) Key(code string) string {
	return p.prefix() + ":" + code
}

func (p Purpose) IsValid() bool {
	return p == PurposeAuthExchange || p == PurposePasswordReset
}

// Policy fixes the shape of codes for one purpose.
type Policy struct {
	Length int
	TTL    time.Duration
}

// Code is an issued code. Value is the only secret part.
type Code struct {
	Value     string
	Purpose   Purpose
	ExpiresAt time.Time
}

// Store is a TTL bearing key value store with an atomic take.
type Store interface {
	// Put upserts key unconditionally. After ttl the key must be
	// unreachable by GetAndDelete.
	Put(ctx context.Context, key, value string, ttl time.Duration) error

	// GetAndDelete returns the value and removes it in one atomic step.
	// Concurrent callers on the same key see exactly one found=true.
	GetAndDelete(ctx context.Context, key string) (value string, found bool, err error)
}
