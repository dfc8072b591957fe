package calculator

import "errors"

// Failure kinds returned (wrapped) by the calculator. Callers match with errors.Is.
var (
	ErrInsufficientData    = errors.New("insufficient data")
	ErrInvalidWindow       = errors.New("invalid window")
	ErrNoDataInPeriod      = errors.New("no data in period")
	ErrDivisionByZero      = errors.New("division by zero")
	ErrNoOverlap           = errors.New("no overlapping dates")
	ErrInsufficientOverlap = errors.New("insufficient overlapping dates")
)
