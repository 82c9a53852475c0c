// Package tenant models registered client applications.
package tenant

import (
	"context"
	"net/url"
	"strings"
	"time"

	"github.com/Abraxas-365/cauth/pkg/kernel"
	"github.com/Abraxas-365/cauth/pkg/ptrx"
	"github.com/google/uuid"
)

// Tenant is a registered application. PublicID never changes once
// assigned; Name is unique across all tenants.
type Tenant struct {
	ID           uuid.UUID
	PublicID     kernel.TenantID
	OwnerRef     kernel.OwnerRef
	HashedSecret string
	Name         string
	CallbackURLs []string
	RegisteredAt time.Time
}

type RegisterRequest struct {
	OwnerRef     kernel.OwnerRef `json:"-"`
	Name         string          `json:"app_name"`
	Secret       string          `json:"app_secret"`
	CallbackURLs []string        `json:"allowed_callback_urls"`
}

func (r RegisterRequest) Validate() error {
	if r.OwnerRef.IsEmpty() {
		return ErrInvalidInput("owner is required")
	}
	if err := validateName(r.Name); err != nil {
		return err
	}
	if r.Secret == "" {
		return ErrInvalidInput("secret is required")
	}
	return validateCallbackURLs(r.CallbackURLs)
}

// Patch carries the fields an owner may change. Nil means unchanged.
type Patch struct {
	Name         *string   `json:"app_name,omitempty"`
	Secret       *string   `json:"app_secret,omitempty"`
	CallbackURLs *[]string `json:"allowed_callback_urls,omitempty"`
}

func (p Patch) IsEmpty() bool {
	return p.Name == nil && p.Secret == nil && p.CallbackURLs == nil
}

func (p Patch) Validate() error {
	if p.IsEmpty() {
		return ErrInvalidInput("nothing to update")
	}
	if p.Name != nil {
		if err := validateName(*p.Name); err != nil {
			return err
		}
	}
	if p.Secret != nil && *p.Secret == "" {
		return ErrInvalidInput("secret must not be empty")
	}
	if p.CallbackURLs != nil {
		return validateCallbackURLs(*p.CallbackURLs)
	}
	return nil
}

// Changes is a validated Patch with the secret already hashed.
type Changes struct {
	Name         *string
	HashedSecret *string
	CallbackURLs *[]string
}

// ApplyChanges returns t with c applied. PublicID, OwnerRef and ID are
// never touched.
func ApplyChanges(t Tenant, c Changes) Tenant {
	t.Name = ptrx.ValueOr(ptrx.Map(c.Name, strings.TrimSpace), t.Name)
	t.HashedSecret = ptrx.ValueOr(c.HashedSecret, t.HashedSecret)
	if c.CallbackURLs != nil {
		t.CallbackURLs = append([]string(nil), (*c.CallbackURLs)...)
	}
	return t
}

// View is the outward shape of a tenant. It never carries the secret.
type View struct {
	PublicID     kernel.TenantID `json:"app_id"`
	OwnerRef     kernel.OwnerRef `json:"owner_email"`
	Name         string          `json:"app_name"`
	CallbackURLs []string        `json:"allowed_callback_urls"`
	RegisteredAt time.Time       `json:"date_of_joining"`
}

func ToView(t Tenant) View {
	urls := t.CallbackURLs
	if urls == nil {
		urls = []string{}
	}
	return View{
		PublicID:     t.PublicID,
		OwnerRef:     t.OwnerRef,
		Name:         t.Name,
		CallbackURLs: urls,
		RegisteredAt: t.RegisteredAt,
	}
}

const maxNameLength = 128

func validateName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrInvalidInput("name is required")
	}
	if len(name) > maxNameLength {
		return ErrInvalidInput("name is too long")
	}
	return nil
}

func validateCallbackURLs(urls []string) error {
	for _, raw := range urls {
		u, err := url.Parse(raw)
		if err != nil || u.Host == "" || (u.Scheme != "https" && u.Scheme != "http") {
			return ErrInvalidInput("callback urls must be absolute http(s) urls").WithDetail("url", raw)
		}
	}
	return nil
}

type Repository interface {
	// Create fails with ErrNameTaken on a name conflict and
	// ErrPublicIDCollision on a public id conflict.
	Create(ctx context.Context, t Tenant) error
	FindByPublicID(ctx context.Context, id kernel.TenantID) (*Tenant, error)
	FindByName(ctx context.Context, name string) (*Tenant, error)
	ExistsByName(ctx context.Context, name string) (bool, error)
	ExistsByOwner(ctx context.Context, owner kernel.OwnerRef) (bool, error)
	ListByOwner(ctx context.Context, owner kernel.OwnerRef, opts kernel.PaginationOptions) (kernel.Paginated[Tenant], error)
	Update(ctx context.Context, t Tenant) error
	Delete(ctx context.Context, id kernel.TenantID) (bool, error)
}

// OwnerDirectory answers whether an organization account exists.
type OwnerDirectory interface {
	Exists(ctx context.Context, owner kernel.OwnerRef) (bool, error)
}
