package kernel

import "context"

const (
	RoleOrganization = "ROLE_ORGANIZATION"
	RoleUser         = "ROLE_USER"
)

// AuthContext describes the principal behind a platform token.
type AuthContext struct {
	Owner OwnerRef `json:"owner"`
	Role  string   `json:"role"`
}

func (ac *AuthContext) IsValid() bool {
	return ac != nil && !ac.Owner.IsEmpty() && ac.Role != ""
}

func (ac *AuthContext) IsOrganization() bool {
	return ac.IsValid() && ac.Role == RoleOrganization
}

// Owns reports whether the principal is the owner of a tenant owned by
// owner.
func (ac *AuthContext) Owns(owner OwnerRef) bool {
	return ac.IsOrganization() && ac.Owner == owner
}

type ContextKey string

const (
	AuthContextKey ContextKey = "auth_context"
)

func WithAuthContext(ctx context.Context, ac *AuthContext) context.Context {
	return context.WithValue(ctx, AuthContextKey, ac)
}

func AuthContextFrom(ctx context.Context) (*AuthContext, bool) {
	ac, ok := ctx.Value(AuthContextKey).(*AuthContext)
	return ac, ok && ac.IsValid()
}
