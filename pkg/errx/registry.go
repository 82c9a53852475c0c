package errx

import (
	"fmt"
	"sort"
	"sync"
)

// ErrorCode is a code registered with a Registry. Packages keep the
// returned pointers as package-level vars and build errors from them.
type ErrorCode struct {
	Code       string
	Type       Type
	HTTPStatus int
	Message    string
}

// Registry owns the codes of one module, all sharing a prefix.
type Registry struct {
	prefix string
	codes  map[string]*ErrorCode
	mu     sync.RWMutex
}

func NewRegistry(prefix string) *Registry {
	return &Registry{
		prefix: prefix,
		codes:  make(map[string]*ErrorCode),
	}
}

// Register adds a code to the registry. Registering the same short code
// twice panics, since both call sites would silently share one identity.
func (r *Registry) Register(code string, errType Type, httpStatus int, message string) *ErrorCode {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, dup := r.codes[code]; dup {
		panic(fmt.Sprintf("errx: code %s_%s registered twice", r.prefix, code))
	}
	if httpStatus == 0 {
		httpStatus = errType.httpStatus()
	}

	errorCode := &ErrorCode{
		Code:       fmt.Sprintf("%s_%s", r.prefix, code),
		Type:       errType,
		HTTPStatus: httpStatus,
		Message:    message,
	}
	r.codes[code] = errorCode
	return errorCode
}

func (r *Registry) New(code *ErrorCode) *Error {
	return r.build(code, code.Message, nil)
}

func (r *Registry) NewWithMessage(code *ErrorCode, message string) *Error {
	return r.build(code, message, nil)
}

// NewWithCause keeps cause in the chain for logging. The cause is never
// rendered to clients.
func (r *Registry) NewWithCause(code *ErrorCode, cause error) *Error {
	return r.build(code, code.Message, cause)
}

func (r *Registry) build(code *ErrorCode, message string, cause error) *Error {
	return &Error{
		Code:       code.Code,
		Message:    message,
		Type:       code.Type,
		HTTPStatus: code.HTTPStatus,
		Details:    make(map[string]interface{}),
		Err:        cause,
	}
}

func (r *Registry) Get(code string) (*ErrorCode, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	errorCode, exists := r.codes[code]
	return errorCode, exists
}

// Codes lists the registered codes ordered by full code.
func (r *Registry) Codes() []*ErrorCode {
	r.mu.RLock()
	defer r.mu.RUnlock()

	codes := make([]*ErrorCode, 0, len(r.codes))
	for _, v := range r.codes {
		codes = append(codes, v)
	}
	sort.Slice(codes, func(i, j int) bool { return codes[i].Code < codes[j].Code })
	return codes
}
