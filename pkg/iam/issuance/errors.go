package issuance

import (
	"context"

	"github.com/Abraxas-365/cauth/pkg/errx"
	"github.com/Abraxas-365/cauth/pkg/iam"
	"github.com/Abraxas-365/cauth/pkg/logx"
)

// rule maps one internal code to a public error.
type rule struct {
	code   *errx.ErrorCode
	public func() *errx.Error
}

func on(code *errx.ErrorCode, public func() *errx.Error) rule {
	return rule{code: code, public: public}
}

// fold turns err into a public iam error. The internal error is only
// logged.
func (s *Service) fold(ctx context.Context, op string, err error, rules ...rule) error {
	if err == nil {
		return nil
	}
	if iam.IsPublic(err) {
		return err
	}

	var out *errx.Error
	for _, r := range rules {
		if errx.HasCode(err, r.code) {
			out = r.public()
			break
		}
	}
	if out == nil {
		switch errx.TypeOf(err) {
		case errx.TypeUnavailable:
			out = iam.ErrUnavailable()
		case errx.TypeValidation:
			out = iam.ErrInvalidRequest(reasonOf(err))
		default:
			out = iam.ErrInternal()
		}
	}

	entry := s.logger.WithFields(logx.Fields{
		"op":          op,
		"public_code": out.Code,
	}).WithError(err).WithContext(ctx)
	switch out.Type {
	case errx.TypeInternal, errx.TypeUnavailable:
		entry.Error("operation failed")
	default:
		entry.Debug("operation rejected")
	}
	return out
}

func reasonOf(err error) string {
	var e *errx.Error
	if errx.As(err, &e) {
		return e.Message
	}
	return "invalid request"
}
