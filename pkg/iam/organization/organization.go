// Package organization stores tenant owner accounts.
package organization

import (
	"context"
	"time"

	"github.com/Abraxas-365/cauth/pkg/kernel"
	"github.com/google/uuid"
)

type Organization struct {
	ID             uuid.UUID
	Name           string
	Email          kernel.OwnerRef
	HashedPassword string
	Active         bool
	JoinedAt       time.Time
	Role           string
}

// View is the public shape of an organization.
type View struct {
	Name     string          `json:"org_name"`
	Email    kernel.OwnerRef `json:"email"`
	Active   bool            `json:"is_active"`
	JoinedAt time.Time       `json:"joined_on"`
}

func ToView(o Organization) View {
	return View{Name: o.Name, Email: o.Email, Active: o.Active, JoinedAt: o.JoinedAt}
}

type Repository interface {
	// Create fails with ErrAlreadyExists when the email is taken.
	Create(ctx context.Context, o Organization) error
	FindByEmail(ctx context.Context, email kernel.OwnerRef) (*Organization, error)
	ExistsByEmail(ctx context.Context, email kernel.OwnerRef) (bool, error)
}

// Owners adapts a Repository to tenant.OwnerDirectory.
type Owners struct {
	Repo Repository
}

func (o Owners) Exists(ctx context.Context, owner kernel.OwnerRef) (bool, error) {
	return o.Repo.ExistsByEmail(ctx, owner)
}
