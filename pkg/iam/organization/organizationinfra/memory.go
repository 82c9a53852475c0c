package organizationinfra

import (
	"context"
	"sync"

	"github.com/Abraxas-365/cauth/pkg/iam/organization"
	"github.com/Abraxas-365/cauth/pkg/kernel"
)

type MemoryOrganizationRepository struct {
	mu   sync.RWMutex
	orgs map[kernel.OwnerRef]organization.Organization
}

func NewMemoryOrganizationRepository() *MemoryOrganizationRepository {
	return &MemoryOrganizationRepository{orgs: make(map[kernel.OwnerRef]organization.Organization)}
}

var _ organization.Repository = (*MemoryOrganizationRepository)(nil)

func (r *MemoryOrganizationRepository) Create(_ context.Context, o organization.Organization) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, taken := r.orgs[o.Email]; taken {
		return organization.ErrAlreadyExists().WithDetail("email", o.Email.String())
	}
	r.orgs[o.Email] = o
	return nil
}

func (r *MemoryOrganizationRepository) FindByEmail(_ context.Context, email kernel.OwnerRef) (*organization.Organization, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	o, ok := r.orgs[email]
	if !ok {
		return nil, organization.ErrNotFound()
	}
	return &o, nil
}

func (r *MemoryOrganizationRepository) ExistsByEmail(_ context.Context, email kernel.OwnerRef) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.orgs[email]
	return ok, nil
}
