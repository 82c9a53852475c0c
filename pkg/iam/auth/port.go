package auth

import (
	"context"

	"github.com/Abraxas-365/cauth/pkg/kernel"
)

// AuditService records security relevant events.
type AuditService interface {
	LogLoginAttempt(ctx context.Context, subject string, tenantID kernel.TenantID, method string, success bool)
	LogAccountCreated(ctx context.Context, subject string, tenantID kernel.TenantID, method string)
	LogTokenIssued(ctx context.Context, subject string, tenantID kernel.TenantID, grant string)
	LogCodeRedemption(ctx context.Context, purpose string, success bool)
	LogPasswordReset(ctx context.Context, authID kernel.SubjectID, success bool)
	LogTenantChange(ctx context.Context, actor kernel.OwnerRef, tenantID kernel.TenantID, action string)
}
