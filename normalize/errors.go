package normalize

import (
	"errors"
	"fmt"
)

// ErrUnrecognizedShape is matched by errors.Is for every *UnrecognizedShapeError.
var ErrUnrecognizedShape = errors.New("normalize: unrecognized error shape")

// UnrecognizedShapeError reports a value that matched none of the known error
// shapes. Value is the original value, never copied or wrapped.
type UnrecognizedShapeError struct {
	Value any
}

// Error implements the error interface.
func (e *UnrecognizedShapeError) Error() string {
	return fmt.Sprintf("normalize: unrecognized error shape (%T)", e.Value)
}

// Is makes errors.Is(err, ErrUnrecognizedShape) true.
func (e *UnrecognizedShapeError) Is(target error) bool {
	return target == ErrUnrecognizedShape
}

// RawValue extracts the original value from an unrecognized-shape error.
func RawValue(err error) (any, bool) {
	var u *UnrecognizedShapeError
	if errors.As(err, &u) {
		return u.Value, true
	}
	return nil, false
}
