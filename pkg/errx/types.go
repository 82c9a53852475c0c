package errx

// Type is the category an error belongs to. Boundaries translate a Type
// into a transport status; callers should branch on Type or Code, never
// on Message.
type Type string

const (
	TypeInternal      Type = "INTERNAL"
	TypeValidation    Type = "VALIDATION"
	TypeAuthorization Type = "AUTHORIZATION"
	TypeNotFound      Type = "NOT_FOUND"
	TypeConflict      Type = "CONFLICT"
	TypeBusiness      Type = "BUSINESS"
	TypeExternal      Type = "EXTERNAL"

	// TypeUnavailable marks a transient failure of a backing store or
	// dependency. The operation may be retried by the caller.
	TypeUnavailable Type = "UNAVAILABLE"
)

func (t Type) String() string {
	return string(t)
}

// Retryable reports whether errors of this type are worth retrying.
func (t Type) Retryable() bool {
	return t == TypeUnavailable
}

func (t Type) httpStatus() int {
	switch t {
	case TypeValidation:
		return 400
	case TypeAuthorization:
		return 401
	case TypeNotFound:
		return 404
	case TypeConflict:
		return 409
	case TypeBusiness:
		return 422
	case TypeExternal:
		return 502
	case TypeUnavailable:
		return 503
	default:
		return 500
	}
}
