package otp

import (
	"net/http"

	"github.com/Abraxas-365/cauth/pkg/errx"
)

var ErrRegistry = errx.NewRegistry("OTP")

var (
	CodeInvalidOrExpired = ErrRegistry.Register("INVALID_OR_EXPIRED", errx.TypeAuthorization, http.StatusUnauthorized, "Code is invalid or expired")
	CodeUnknownPurpose   = ErrRegistry.Register("UNKNOWN_PURPOSE", errx.TypeInternal, http.StatusInternalServerError, "Unknown code purpose")
)

func ErrInvalidOrExpired() *errx.Error { return ErrRegistry.New(CodeInvalidOrExpired) }

func ErrUnknownPurpose(p Purpose) *errx.Error {
	return ErrRegistry.New(CodeUnknownPurpose).WithDetail("purpose", string(p))
}
