// Package signingkey owns the per-tenant HMAC key. Each tenant has
// exactly one active key; rotation replaces it with no overlap window.
package signingkey

import (
	"context"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/Abraxas-365/cauth/pkg/kernel"
)

type SigningKey struct {
	TenantID  kernel.TenantID `db:"tenant_public_id" json:"tenant_id"`
	Material  string          `db:"secret_material" json:"-"`
	CreatedAt time.Time       `db:"created_at" json:"created_at"`
	RotatedAt *time.Time      `db:"rotated_at" json:"rotated_at,omitempty"`
}

// HMACKey decodes Material into raw key bytes.
func (k *SigningKey) HMACKey() ([]byte, error) {
	key, err := base64.StdEncoding.DecodeString(k.Material)
	if err != nil {
		return nil, ErrMalformed().WithDetail("tenant_id", k.TenantID.String())
	}
	return key, nil
}

// String keeps key material out of logs and %v output.
func (k SigningKey) String() string {
	return fmt.Sprintf("SigningKey{tenant=%s created=%s}", k.TenantID, k.CreatedAt.Format(time.RFC3339))
}

type Repository interface {
	// Create fails with ErrAlreadyExists when the tenant has a key.
	Create(ctx context.Context, key SigningKey) error

	FindByTenant(ctx context.Context, tenantID kernel.TenantID) (*SigningKey, error)

	// Replace swaps material in one statement and returns the new row.
	Replace(ctx context.Context, tenantID kernel.TenantID, material string, rotatedAt time.Time) (*SigningKey, error)

	// Delete reports whether a key was removed.
	Delete(ctx context.Context, tenantID kernel.TenantID) (bool, error)
}
