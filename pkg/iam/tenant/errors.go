package tenant

import (
	"net/http"

	"github.com/Abraxas-365/cauth/pkg/errx"
)

var ErrRegistry = errx.NewRegistry("TENANT")

var (
	CodeNotFound           = ErrRegistry.Register("NOT_FOUND", errx.TypeNotFound, http.StatusNotFound, "Tenant not found")
	CodeNameTaken          = ErrRegistry.Register("NAME_TAKEN", errx.TypeConflict, http.StatusConflict, "App name is already taken")
	CodeOwnerNotFound      = ErrRegistry.Register("OWNER_NOT_FOUND", errx.TypeNotFound, http.StatusNotFound, "Owner is not registered")
	CodeInvalidCredentials = ErrRegistry.Register("INVALID_CREDENTIALS", errx.TypeAuthorization, http.StatusUnauthorized, "Bad credentials")
	CodeInvalidInput       = ErrRegistry.Register("INVALID_INPUT", errx.TypeValidation, http.StatusBadRequest, "Invalid tenant data")
	CodePublicIDCollision  = ErrRegistry.Register("PUBLIC_ID_COLLISION", errx.TypeConflict, http.StatusConflict, "Generated app id already exists")
)

func ErrNotFound() *errx.Error           { return ErrRegistry.New(CodeNotFound) }
func ErrNameTaken() *errx.Error          { return ErrRegistry.New(CodeNameTaken) }
func ErrOwnerNotFound() *errx.Error      { return ErrRegistry.New(CodeOwnerNotFound) }
func ErrInvalidCredentials() *errx.Error { return ErrRegistry.New(CodeInvalidCredentials) }
func ErrPublicIDCollision() *errx.Error  { return ErrRegistry.New(CodePublicIDCollision) }

func ErrInvalidInput(reason string) *errx.Error {
	return ErrRegistry.NewWithMessage(CodeInvalidInput, reason)
}
