package otpsrv

import (
	"context"
	"time"

	"github.com/Abraxas-365/cauth/pkg/iam/codegen"
	"github.com/Abraxas-365/cauth/pkg/iam/otp"
	"github.com/Abraxas-365/cauth/pkg/logx"
)

// Issuer issues and redeems codes per purpose on top of an otp.Store.
type Issuer struct {
	store    otp.Store
	gen      codegen.Generator
	policies map[otp.Purpose]otp.Policy
	logger   *logx.Logger
	now      func() time.Time
}

func NewIssuer(store otp.Store, gen codegen.Generator, policies map[otp.Purpose]otp.Policy, logger *logx.Logger) *Issuer {
	return &Issuer{
		store:    store,
		gen:      gen,
		policies: policies,
		logger:   logger.With(logx.Fields{"component": "otp"}),
		now:      time.Now,
	}
}

// DefaultPolicies are 12 char auth codes and 6 char reset codes, both
// living 10 minutes.
func DefaultPolicies() map[otp.Purpose]otp.Policy {
	return map[otp.Purpose]otp.Policy{
		otp.PurposeAuthExchange:  {Length: 12, TTL: 10 * time.Minute},
		otp.PurposePasswordReset: {Length: 6, TTL: 10 * time.Minute},
	}
}

func (s *Issuer) Policy(p otp.Purpose) (otp.Policy, error) {
	pol, ok := s.policies[p]
	if !ok {
		return otp.Policy{}, otp.ErrUnknownPurpose(p)
	}
	return pol, nil
}

// Issue stores payload under a fresh code.
func (s *Issuer) Issue(ctx context.Context, purpose otp.Purpose, payload string) (otp.Code, error) {
	pol, err := s.Policy(purpose)
	if err != nil {
		return otp.Code{}, err
	}

	value, err := s.gen.Code(pol.Length)
	if err != nil {
		return otp.Code{}, err
	}

	if err := s.store.Put(ctx, purpose.Key(value), payload, pol.TTL); err != nil {
		return otp.Code{}, err
	}

	s.logger.WithField("purpose", purpose).Debug("code issued")
	return otp.Code{
		Value:     value,
		Purpose:   purpose,
		ExpiresAt: s.now().Add(pol.TTL),
	}, nil
}

// Redeem consumes code and returns its payload. An absent, expired or
// already used code is ErrInvalidOrExpired.
func (s *Issuer) Redeem(ctx context.Context, purpose otp.Purpose, code string) (string, error) {
	if _, err := s.Policy(purpose); err != nil {
		return "", err
	}
	if code == "" {
		return "", otp.ErrInvalidOrExpired()
	}

	payload, found, err := s.store.GetAndDelete(ctx, purpose.Key(code))
	if err != nil {
		return "", err
	}
	if !found {
		return "", otp.ErrInvalidOrExpired()
	}
	return payload, nil
}

// Revoke drops code without caring whether it existed.
func (s *Issuer) Revoke(ctx context.Context, purpose otp.Purpose, code string) error {
	_, _, err := s.store.GetAndDelete(ctx, purpose.Key(code))
	return err
}
