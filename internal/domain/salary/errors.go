package salary

import "errors"

var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrInconsistentState = errors.New("inconsistent state")
)
