package signingkey

import (
	"net/http"

	"github.com/Abraxas-365/cauth/pkg/errx"
)

var ErrRegistry = errx.NewRegistry("SIGNINGKEY")

var (
	CodeNotFound      = ErrRegistry.Register("NOT_FOUND", errx.TypeNotFound, http.StatusNotFound, "Signing key not found")
	CodeAlreadyExists = ErrRegistry.Register("ALREADY_EXISTS", errx.TypeConflict, http.StatusConflict, "Signing key already exists for tenant")
	CodeMalformed     = ErrRegistry.Register("MALFORMED", errx.TypeInternal, http.StatusInternalServerError, "Stored signing key is malformed")
)

func ErrNotFound() *errx.Error      { return ErrRegistry.New(CodeNotFound) }
func ErrAlreadyExists() *errx.Error { return ErrRegistry.New(CodeAlreadyExists) }
func ErrMalformed() *errx.Error     { return ErrRegistry.New(CodeMalformed) }
