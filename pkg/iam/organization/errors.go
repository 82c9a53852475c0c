package organization

import (
	"net/http"

	"github.com/Abraxas-365/cauth/pkg/errx"
)

var ErrRegistry = errx.NewRegistry("ORGANIZATION")

var (
	CodeNotFound      = ErrRegistry.Register("NOT_FOUND", errx.TypeNotFound, http.StatusNotFound, "Organization not found")
	CodeAlreadyExists = ErrRegistry.Register("ALREADY_EXISTS", errx.TypeConflict, http.StatusConflict, "Email already taken")
)

func ErrNotFound() *errx.Error      { return ErrRegistry.New(CodeNotFound) }
func ErrAlreadyExists() *errx.Error { return ErrRegistry.New(CodeAlreadyExists) }
