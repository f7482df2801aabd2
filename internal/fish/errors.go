package fish

import "errors"

var (
	// ErrOutOfRange reports a caller-supplied parameter outside its
	// documented bounds.
	ErrOutOfRange = errors.New("parameter out of range")

	// ErrDegenerateInput reports input no image can be built from, such as
	// a palette without two distinct colours.
	ErrDegenerateInput = errors.New("degenerate input")
)
