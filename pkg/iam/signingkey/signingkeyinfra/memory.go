package signingkeyinfra

import (
	"context"
	"sync"
	"time"

	"github.com/Abraxas-365/cauth/pkg/iam/signingkey"
	"github.com/Abraxas-365/cauth/pkg/kernel"
)

// MemorySigningKeyRepository backs STORE_MODE=memory and tests.
type MemorySigningKeyRepository struct {
	mu   sync.RWMutex
	keys map[kernel.TenantID]signingkey.SigningKey
}

func NewMemorySigningKeyRepository() *MemorySigningKeyRepository {
	return &MemorySigningKeyRepository{keys: make(map[kernel.TenantID]signingkey.SigningKey)}
}

var _ signingkey.Repository = (*MemorySigningKeyRepository)(nil)

func (r *MemorySigningKeyRepository) Create(_ context.Context, key signingkey.SigningKey) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.keys[key.TenantID]; exists {
		return signingkey.ErrAlreadyExists().WithDetail("tenant_id", key.TenantID.String())
	}
	r.keys[key.TenantID] = key
	return nil
}

func (r *MemorySigningKeyRepository) FindByTenant(_ context.Context, tenantID kernel.TenantID) (*signingkey.SigningKey, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	key, ok := r.keys[tenantID]
	if !ok {
		return nil, signingkey.ErrNotFound()
	}
	return &key, nil
}

func (r *MemorySigningKeyRepository) Replace(_ context.Context, tenantID kernel.TenantID, material string, rotatedAt time.Time) (*signingkey.SigningKey, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key, ok := r.keys[tenantID]
	if !ok {
		return nil, signingkey.ErrNotFound()
	}
	key.Material = material
	key.RotatedAt = &rotatedAt
	r.keys[tenantID] = key
	return &key, nil
}

func (r *MemorySigningKeyRepository) Delete(_ context.Context, tenantID kernel.TenantID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, ok := r.keys[tenantID]
	delete(r.keys, tenantID)
	return ok, nil
}

func (r *MemorySigningKeyRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.keys)
}
