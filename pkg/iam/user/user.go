// Package user stores end users. Users belong to exactly one tenant and
// are unique by email inside it.
package user

import (
	"context"
	"time"

	"github.com/Abraxas-365/cauth/pkg/kernel"
	"github.com/google/uuid"
)

const (
	MinPasswordLength = 8
	MaxPasswordLength = 128
	maxPhoneLength    = 20
)

type User struct {
	ID             uuid.UUID
	AuthID         kernel.SubjectID
	Email          string
	TenantID       kernel.TenantID
	HashedPassword string
	EmailVerified  bool
	PhoneNumber    string
	Role           string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (u User) HasPhoneNumber() bool { return u.PhoneNumber != "" }

// View is the outward shape of a user.
type View struct {
	ID            uuid.UUID        `json:"id"`
	AuthID        kernel.SubjectID `json:"auth_id"`
	Email         string           `json:"email"`
	TenantID      kernel.TenantID  `json:"app_id"`
	EmailVerified bool             `json:"is_email_verified"`
	PhoneNumber   string           `json:"phone_number,omitempty"`
	Role          string           `json:"role"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`
}

func ToView(u User) View {
	return View{
		ID:            u.ID,
		AuthID:        u.AuthID,
		Email:         u.Email,
		TenantID:      u.TenantID,
		EmailVerified: u.EmailVerified,
		PhoneNumber:   u.PhoneNumber,
		Role:          u.Role,
		CreatedAt:     u.CreatedAt,
		UpdatedAt:     u.UpdatedAt,
	}
}

func ValidatePassword(password string) error {
	if len(password) < MinPasswordLength || len(password) > MaxPasswordLength {
		return ErrInvalidInput("password must be between 8 and 128 characters")
	}
	return nil
}

func ValidateRegistration(email, password, phone string) error {
	if !kernel.ValidEmail(email) {
		return ErrInvalidInput("email must be valid")
	}
	if len(phone) > maxPhoneLength {
		return ErrInvalidInput("phone number is too long")
	}
	return ValidatePassword(password)
}

type Repository interface {
	// Create fails with ErrAlreadyExists when (tenant, email) or the auth
	// id is taken.
	Create(ctx context.Context, u User) error
	FindByEmail(ctx context.Context, tenantID kernel.TenantID, email string) (*User, error)
	FindByAuthID(ctx context.Context, authID kernel.SubjectID) (*User, error)
	UpdatePassword(ctx context.Context, authID kernel.SubjectID, hashedPassword string, at time.Time) error
}
