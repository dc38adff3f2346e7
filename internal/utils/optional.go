package utils

import "strings"

func Ptr[T any](v T) *T {
	return &v
}

// Deref returns *v, or fallback when v is nil.
func Deref[T any](v *T, fallback T) T {
	if v == nil {
		return fallback
	}
	return *v
}

func OrZero[T any](v *T) T {
	var zero T
	return Deref(v, zero)
}

// NonZero returns nil for the zero value of T.
func NonZero[T comparable](v T) *T {
	var zero T
	if v == zero {
		return nil
	}
	return &v
}

// Returns nil on an empty or all whitespace string
func StringOrNil(s string) *string {
	return NonZero(strings.TrimSpace(s))
}
