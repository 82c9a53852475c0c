package tenantinfra

import (
	"context"
	"sort"
	"sync"

	"github.com/Abraxas-365/cauth/pkg/iam/tenant"
	"github.com/Abraxas-365/cauth/pkg/kernel"
)

// MemoryTenantRepository enforces the same uniqueness rules as the
// Postgres schema under a single lock.
type MemoryTenantRepository struct {
	mu      sync.RWMutex
	tenants map[kernel.TenantID]tenant.Tenant
	names   map[string]kernel.TenantID
}

func NewMemoryTenantRepository() *MemoryTenantRepository {
	return &MemoryTenantRepository{
		tenants: make(map[kernel.TenantID]tenant.Tenant),
		names:   make(map[string]kernel.TenantID),
	}
}

var _ tenant.Repository = (*MemoryTenantRepository)(nil)

func (r *MemoryTenantRepository) Create(_ context.Context, t tenant.Tenant) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, taken := r.names[t.Name]; taken {
		return tenant.ErrNameTaken().WithDetail("name", t.Name)
	}
	if _, exists := r.tenants[t.PublicID]; exists {
		return tenant.ErrPublicIDCollision().WithDetail("tenant_id", t.PublicID.String())
	}
	r.tenants[t.PublicID] = clone(t)
	r.names[t.Name] = t.PublicID
	return nil
}

func (r *MemoryTenantRepository) FindByPublicID(_ context.Context, id kernel.TenantID) (*tenant.Tenant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.tenants[id]
	if !ok {
		return nil, tenant.ErrNotFound()
	}
	t = clone(t)
	return &t, nil
}

func (r *MemoryTenantRepository) FindByName(ctx context.Context, name string) (*tenant.Tenant, error) {
	r.mu.RLock()
	id, ok := r.names[name]
	r.mu.RUnlock()
	if !ok {
		return nil, tenant.ErrNotFound()
	}
	return r.FindByPublicID(ctx, id)
}

func (r *MemoryTenantRepository) ExistsByName(_ context.Context, name string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.names[name]
	return ok, nil
}

func (r *MemoryTenantRepository) ExistsByOwner(_ context.Context, owner kernel.OwnerRef) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, t := range r.tenants {
		if t.OwnerRef == owner {
			return true, nil
		}
	}
	return false, nil
}

func (r *MemoryTenantRepository) ListByOwner(_ context.Context, owner kernel.OwnerRef, opts kernel.PaginationOptions) (kernel.Paginated[tenant.Tenant], error) {
	opts = opts.Normalize()

	r.mu.RLock()
	var owned []tenant.Tenant
	for _, t := range r.tenants {
		if t.OwnerRef == owner {
			owned = append(owned, clone(t))
		}
	}
	r.mu.RUnlock()

	sort.Slice(owned, func(i, j int) bool {
		if !owned[i].RegisteredAt.Equal(owned[j].RegisteredAt) {
			return owned[i].RegisteredAt.After(owned[j].RegisteredAt)
		}
		return owned[i].PublicID < owned[j].PublicID
	})

	total := len(owned)
	start := min(opts.Offset(), total)
	end := min(start+opts.PageSize, total)
	return kernel.NewPaginated(owned[start:end], opts.Page, opts.PageSize, total), nil
}

func (r *MemoryTenantRepository) Update(_ context.Context, t tenant.Tenant) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.tenants[t.PublicID]
	if !ok {
		return tenant.ErrNotFound().WithDetail("tenant_id", t.PublicID.String())
	}
	if holder, taken := r.names[t.Name]; taken && holder != t.PublicID {
		return tenant.ErrNameTaken().WithDetail("name", t.Name)
	}

	// id, owner and registration time are immutable
	t.ID = current.ID
	t.OwnerRef = current.OwnerRef
	t.RegisteredAt = current.RegisteredAt

	delete(r.names, current.Name)
	r.names[t.Name] = t.PublicID
	r.tenants[t.PublicID] = clone(t)
	return nil
}

func (r *MemoryTenantRepository) Delete(_ context.Context, id kernel.TenantID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.tenants[id]
	if !ok {
		return false, nil
	}
	delete(r.tenants, id)
	delete(r.names, t.Name)
	return true, nil
}

func (r *MemoryTenantRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.tenants)
}

func clone(t tenant.Tenant) tenant.Tenant {
	if t.CallbackURLs != nil {
		t.CallbackURLs = append([]string(nil), t.CallbackURLs...)
	}
	return t
}
