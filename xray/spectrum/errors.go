package spectrum

import (
	"errors"
	"fmt"
)

// Error classes. Every error returned by this package wraps one of them.
var (
	ErrInvalidArgument    = errors.New("spectrum: invalid argument")
	ErrPreconditionNotMet = errors.New("spectrum: precondition not met")
	ErrInvariantViolation = errors.New("spectrum: invariant violation")
)

// Specific errors.
var (
	ErrInvalidSpectrum = fmt.Errorf("%w: malformed spectrum", ErrInvalidArgument)
	ErrMismatchedGrid  = fmt.Errorf("%w: background bin edges differ from spectrum", ErrInvalidArgument)
	ErrMismatchedUnit  = fmt.Errorf("%w: background bin unit differs from spectrum", ErrInvalidArgument)
	ErrNotGrouped      = fmt.Errorf("%w: there is no grouping on this spectrum", ErrPreconditionNotMet)
	ErrNoBackground    = fmt.Errorf("%w: no background assigned", ErrPreconditionNotMet)
)

// invariantf panics with an error wrapping ErrInvariantViolation. It marks
// defects in the aggregation code, never bad user input.
func invariantf(format string, args ...any) {
	panic(fmt.Errorf("%w: "+format, append([]any{ErrInvariantViolation}, args...)...))
}
