package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors shared by every layer. Repos and services wrap them with
// %w; handlers test for them with errors.Is.
var (
	// ErrNotFound means a trip, day, stop or photo does not exist, or does
	// not belong to the parent named in the request. Handlers answer 404.
	ErrNotFound = errors.New("not found")

	// ErrValidation means the input broke a business rule. Handlers answer
	// 422 with the text that follows "validation error: ".
	ErrValidation = errors.New("validation error")
)

// Invalidf returns an error wrapping ErrValidation with a formatted reason.
func Invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}
