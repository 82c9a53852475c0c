// Package codegen produces random strings for public ids, signing key
// material and one-time codes. It reads only from crypto/rand and never
// degrades to a weaker source.
package codegen

import (
	"crypto/rand"
	"io"
	"net/http"
	"time"

	"github.com/Abraxas-365/cauth/pkg/errx"
)

const DefaultAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

const (
	TenantPrefix  = "APP"
	SubjectPrefix = "user"

	publicIDSuffixLength = 8
	publicIDTimeLayout   = "20060102150405"

	// SigningMaterialLength chars of DefaultAlphabet decode as base64
	// into a 234 byte HMAC key.
	SigningMaterialLength = 312
)

var ErrRegistry = errx.NewRegistry("CODEGEN")

var (
	CodeInvalidArgument = ErrRegistry.Register("INVALID_ARGUMENT", errx.TypeValidation, http.StatusBadRequest, "Invalid code generation argument")
	CodeEntropy         = ErrRegistry.Register("ENTROPY", errx.TypeInternal, http.StatusInternalServerError, "Secure random source failed")
)

// Generator is what services depend on, so tests can pin outputs.
type Generator interface {
	Code(length int) (string, error)
	PublicID(prefix string, now time.Time) (string, error)
	SigningMaterial() (string, error)
}

// Secure is the crypto/rand backed Generator.
type Secure struct {
	src io.Reader
}

func NewSecure() *Secure {
	return &Secure{src: rand.Reader}
}

// NewSecureFrom uses src instead of crypto/rand. It exists so a failing
// entropy source can be simulated.
func NewSecureFrom(src io.Reader) *Secure {
	return &Secure{src: src}
}

func (s *Secure) Code(length int) (string, error) {
	return generate(s.src, length, DefaultAlphabet)
}

func (s *Secure) PublicID(prefix string, now time.Time) (string, error) {
	suffix, err := generate(s.src, publicIDSuffixLength, DefaultAlphabet)
	if err != nil {
		return "", err
	}
	return prefix + "." + now.UTC().Format(publicIDTimeLayout) + "." + suffix, nil
}

func (s *Secure) SigningMaterial() (string, error) {
	return generate(s.src, SigningMaterialLength, DefaultAlphabet)
}

// Generate returns length symbols drawn uniformly from alphabet.
func Generate(length int, alphabet string) (string, error) {
	return generate(rand.Reader, length, alphabet)
}

func generate(src io.Reader, length int, alphabet string) (string, error) {
	if length < 1 {
		return "", ErrRegistry.New(CodeInvalidArgument).WithDetail("length", length)
	}
	n := len(alphabet)
	if n < 2 || n > 256 {
		return "", ErrRegistry.New(CodeInvalidArgument).WithDetail("alphabet_size", n)
	}

	// Bytes at or above limit are rejected so every symbol is equally
	// likely.
	limit := 256 - (256 % n)
	out := make([]byte, 0, length)
	buf := make([]byte, length+length/4+8)
	defer clear(buf)

	for len(out) < length {
		if _, err := io.ReadFull(src, buf); err != nil {
			return "", ErrRegistry.NewWithCause(CodeEntropy, err)
		}
		for _, b := range buf {
			if int(b) >= limit {
				continue
			}
			out = append(out, alphabet[int(b)%n])
			if len(out) == length {
				break
			}
		}
	}
	return string(out), nil
}
