package cabinet

import (
	"errors"
	"fmt"

	"go.uber.org/multierr"
)

// Sentinel errors for the invariants a Config must satisfy. Every violation
// reported by Validate unwraps to one of these.
var (
	ErrInvalidDimension  = errors.New("invalid dimension")
	ErrInvalidDoorCount  = errors.New("invalid door count")
	ErrInvalidShelfCount = errors.New("invalid shelf count")
	ErrInvalidOption     = errors.New("invalid option")
)

// FieldError describes one violated invariant.
type FieldError struct {
	Field string // json name of the offending field, or a panel role
	Value any
	Err   error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %v (got %v)", e.Field, e.Err, e.Value)
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

// FieldErrors flattens an error returned by Validate into its individual
// field errors. Errors that are not FieldErrors are skipped.
func FieldErrors(err error) []*FieldError {
	var out []*FieldError
	for _, e := range multierr.Errors(err) {
		var fe *FieldError
		if errors.As(e, &fe) {
			out = append(out, fe)
		}
	}
	return out
}

// IsValidation reports whether err carries at least one config violation.
func IsValidation(err error) bool {
	return errors.Is(err, ErrInvalidDimension) ||
		errors.Is(err, ErrInvalidDoorCount) ||
		errors.Is(err, ErrInvalidShelfCount) ||
		errors.Is(err, ErrInvalidOption)
}
