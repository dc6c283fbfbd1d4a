package estimator

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidConfiguration is returned for a non-positive unit time or a
	// missing key function. No partial result accompanies it.
	ErrInvalidConfiguration = errors.New("invalid estimator configuration")

	// ErrDivisionByZero is returned when a derived metric has a zero
	// denominator but a non-zero numerator.
	ErrDivisionByZero = errors.New("derived metric has zero baseline")

	// ErrNotApplicable is returned when both sides of a derived metric are
	// zero (fully empty batch).
	ErrNotApplicable = errors.New("derived metric not applicable to empty batch")
)

var errNilKeyFunc = fmt.Errorf("%w: key function is nil", ErrInvalidConfiguration)
