// Package apperr defines the error taxonomy surfaced to API clients.
// Anything outside it is treated as internal and never shown verbatim.
package apperr

import (
	"errors"
	"fmt"
)

// ErrNotFound means the operation targeted a nonexistent post.
var ErrNotFound = errors.New("not found")

// InvalidArgument carries a caller-facing reason for a malformed request.
type InvalidArgument struct {
	Reason string
}

func (e *InvalidArgument) Error() string {
	return e.Reason
}

// Invalid builds an InvalidArgument error.
func Invalid(format string, args ...interface{}) error {
	return &InvalidArgument{Reason: fmt.Sprintf(format, args...)}
}

// IsInvalid reports whether err is an InvalidArgument.
func IsInvalid(err error) bool {
	var inv *InvalidArgument
	return errors.As(err, &inv)
}
