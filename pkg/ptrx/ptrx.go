// Package ptrx has helpers for optional values modelled as pointers,
// mostly partial updates where nil means "leave unchanged".
package ptrx

// To returns a pointer to a copy of v.
func To[T any](v T) *T {
	return &v
}

// Value returns *v, or the zero value if v is nil.
func Value[T any](v *T) T {
	if v != nil {
		return *v
	}
	var zero T
	return zero
}

// ValueOr returns *v, or def if v is nil.
func ValueOr[T any](v *T, def T) T {
	if v != nil {
		return *v
	}
	return def
}

// Map applies fn to *v. A nil v stays nil.
func Map[T, R any](v *T, fn func(T) R) *R {
	if v == nil {
		return nil
	}
	r := fn(*v)
	return &r
}
