package iam

// The error kinds below are the only ones that leave the issuance
// boundary. Messages never reveal why a check failed.

import (
	"net/http"

	"github.com/Abraxas-365/cauth/pkg/errx"
)

var ErrRegistry = errx.NewRegistry("IAM")

var (
	CodeInvalidCredentials = ErrRegistry.Register("INVALID_CREDENTIALS", errx.TypeAuthorization, http.StatusUnauthorized, "Bad credentials")
	CodeInvalidCode        = ErrRegistry.Register("INVALID_CODE", errx.TypeAuthorization, http.StatusUnauthorized, "Code is invalid or expired")
	CodeInvalidToken       = ErrRegistry.Register("INVALID_TOKEN", errx.TypeAuthorization, http.StatusUnauthorized, "Invalid or expired token")
	CodeUnauthorized       = ErrRegistry.Register("UNAUTHORIZED", errx.TypeAuthorization, http.StatusUnauthorized, "Unauthorized")
	CodeAccessDenied       = ErrRegistry.Register("ACCESS_DENIED", errx.TypeAuthorization, http.StatusForbidden, "Access denied")
	CodeAlreadyExists      = ErrRegistry.Register("ALREADY_EXISTS", errx.TypeConflict, http.StatusConflict, "Resource already exists")
	CodeOwnerNotFound      = ErrRegistry.Register("OWNER_NOT_FOUND", errx.TypeNotFound, http.StatusNotFound, "Owner is not registered")
	CodeNotFound           = ErrRegistry.Register("NOT_FOUND", errx.TypeNotFound, http.StatusNotFound, "Resource not found")
	CodeInvalidRequest     = ErrRegistry.Register("INVALID_REQUEST", errx.TypeValidation, http.StatusBadRequest, "Invalid request")
	CodeUnavailable        = ErrRegistry.Register("UNAVAILABLE", errx.TypeUnavailable, http.StatusServiceUnavailable, "Service temporarily unavailable")
	CodeInternal           = ErrRegistry.Register("INTERNAL", errx.TypeInternal, http.StatusInternalServerError, "Internal error")
)

func ErrInvalidCredentials() *errx.Error { return ErrRegistry.New(CodeInvalidCredentials) }
func ErrInvalidCode() *errx.Error        { return ErrRegistry.New(CodeInvalidCode) }
func ErrInvalidToken() *errx.Error       { return ErrRegistry.New(CodeInvalidToken) }
func ErrUnauthorized() *errx.Error       { return ErrRegistry.New(CodeUnauthorized) }
func ErrAccessDenied() *errx.Error       { return ErrRegistry.New(CodeAccessDenied) }
func ErrAlreadyExists() *errx.Error      { return ErrRegistry.New(CodeAlreadyExists) }
func ErrOwnerNotFound() *errx.Error      { return ErrRegistry.New(CodeOwnerNotFound) }
func ErrNotFound() *errx.Error           { return ErrRegistry.New(CodeNotFound) }
func ErrUnavailable() *errx.Error        { return ErrRegistry.New(CodeUnavailable) }
func ErrInternal() *errx.Error           { return ErrRegistry.New(CodeInternal) }

func ErrInvalidRequest(reason string) *errx.Error {
	return ErrRegistry.New(CodeInvalidRequest).WithDetail("reason", reason)
}

// IsPublic reports whether err already carries one of the kinds above.
func IsPublic(err error) bool {
	var e *errx.Error
	if !errx.As(err, &e) {
		return false
	}
	for _, c := range ErrRegistry.Codes() {
		if c.Code == e.Code {
			return true
		}
	}
	return false
}
