package authinfra

import (
	"context"

	"github.com/Abraxas-365/cauth/pkg/iam/auth"
	"github.com/Abraxas-365/cauth/pkg/kernel"
	"github.com/Abraxas-365/cauth/pkg/logx"
)

// LogxAuditService implements auth.AuditService using structured logx logging.
type LogxAuditService struct {
	logger *logx.Logger
}

func NewLogxAuditService(logger *logx.Logger) *LogxAuditService {
	return &LogxAuditService{logger: logger.With(logx.Fields{"component": "audit"})}
}

var _ auth.AuditService = (*LogxAuditService)(nil)

func (s *LogxAuditService) event(ctx context.Context, name string, fields logx.Fields) *logx.Entry {
	fields["audit_event"] = name
	return s.logger.WithFields(fields).WithContext(ctx)
}

func (s *LogxAuditService) LogLoginAttempt(ctx context.Context, subject string, tenantID kernel.TenantID, method string, success bool) {
	e := s.event(ctx, "login_attempt", logx.Fields{
		"subject":   subject,
		"tenant_id": tenantID,
		"method":    method,
		"success":   success,
	})
	if success {
		e.Info("Audit: login attempt")
		return
	}
	e.Warn("Audit: login attempt")
}

func (s *LogxAuditService) LogAccountCreated(ctx context.Context, subject string, tenantID kernel.TenantID, method string) {
	s.event(ctx, "account_created", logx.Fields{
		"subject":   subject,
		"tenant_id": tenantID,
		"method":    method,
	}).Info("Audit: account created")
}

func (s *LogxAuditService) LogTokenIssued(ctx context.Context, subject string, tenantID kernel.TenantID, grant string) {
	s.event(ctx, "token_issued", logx.Fields{
		"subject":   subject,
		"tenant_id": tenantID,
		"grant":     grant,
	}).Info("Audit: token issued")
}

func (s *LogxAuditService) LogCodeRedemption(ctx context.Context, purpose string, success bool) {
	e := s.event(ctx, "code_redemption", logx.Fields{
		"purpose": purpose,
		"success": success,
	})
	if success {
		e.Info("Audit: code redeemed")
		return
	}
	e.Warn("Audit: code redemption rejected")
}

func (s *LogxAuditService) LogPasswordReset(ctx context.Context, authID kernel.SubjectID, success bool) {
	s.event(ctx, "password_reset", logx.Fields{
		"auth_id": authID,
		"success": success,
	}).Info("Audit: password reset")
}

func (s *LogxAuditService) LogTenantChange(ctx context.Context, actor kernel.OwnerRef, tenantID kernel.TenantID, action string) {
	s.event(ctx, "tenant_change", logx.Fields{
		"actor":     actor,
		"tenant_id": tenantID,
		"action":    action,
	}).Info("Audit: tenant change")
}
