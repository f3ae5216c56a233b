package refl

import "errors"

// Domain errors for simulation and Fisher information operations.
var (
	// ErrResourceNotFound indicates an instrument name that is not in the
	// built-in direct-beam registry and is not a readable file path.
	ErrResourceNotFound = errors.New("refl: direct beam resource not found")

	// ErrInvalidStructure indicates a malformed sample or model, such as a
	// model returning the wrong number of reflectivity values or dataset
	// lists of mismatched lengths.
	ErrInvalidStructure = errors.New("refl: invalid structure")

	// ErrInvalidMatrix indicates a degenerate matrix operation, such as
	// requesting the smallest eigenvalue of an empty information matrix.
	ErrInvalidMatrix = errors.New("refl: invalid matrix")
)
