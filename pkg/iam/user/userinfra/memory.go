package userinfra

import (
	"context"
	"sync"
	"time"

	"github.com/Abraxas-365/cauth/pkg/iam/user"
	"github.com/Abraxas-365/cauth/pkg/kernel"
)

type emailKey struct {
	tenant kernel.TenantID
	email  string
}

type MemoryUserRepository struct {
	mu      sync.RWMutex
	byAuth  map[kernel.SubjectID]user.User
	byEmail map[emailKey]kernel.SubjectID
}

func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{
		byAuth:  make(map[kernel.SubjectID]user.User),
		byEmail: make(map[emailKey]kernel.SubjectID),
	}
}

var _ user.Repository = (*MemoryUserRepository)(nil)

func (r *MemoryUserRepository) Create(_ context.Context, u user.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	k := emailKey{u.TenantID, u.Email}
	if _, taken := r.byEmail[k]; taken {
		return user.ErrAlreadyExists().WithDetail("tenant_id", u.TenantID.String())
	}
	if _, taken := r.byAuth[u.AuthID]; taken {
		return user.ErrAlreadyExists().WithDetail("auth_id", u.AuthID.String())
	}
	r.byAuth[u.AuthID] = u
	r.byEmail[k] = u.AuthID
	return nil
}

func (r *MemoryUserRepository) FindByEmail(_ context.Context, tenantID kernel.TenantID, email string) (*user.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	authID, ok := r.byEmail[emailKey{tenantID, email}]
	if !ok {
		return nil, user.ErrNotFound()
	}
	u := r.byAuth[authID]
	return &u, nil
}

func (r *MemoryUserRepository) FindByAuthID(_ context.Context, authID kernel.SubjectID) (*user.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.byAuth[authID]
	if !ok {
		return nil, user.ErrNotFound()
	}
	return &u, nil
}

func (r *MemoryUserRepository) UpdatePassword(_ context.Context, authID kernel.SubjectID, hashedPassword string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.byAuth[authID]
	if !ok {
		return user.ErrNotFound().WithDetail("auth_id", authID.String())
	}
	u.HashedPassword = hashedPassword
	u.UpdatedAt = at
	r.byAuth[authID] = u
	return nil
}

func (r *MemoryUserRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byAuth)
}
