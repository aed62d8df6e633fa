package schema

import (
	"errors"
	"fmt"
)

// ErrMalformedMeasurement marks a dimension value whose text could not be
// parsed to a numeric millimetre magnitude.
var ErrMalformedMeasurement = errors.New("schema: malformed measurement")

// ValidationError reports a dimension mapping that does not satisfy the
// schema of its resolved shape type: a required field is missing, a field has
// the wrong kind, or a field is not declared by the shape at all.
type ValidationError struct {
	Shape  ShapeType
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("schema: %s: %s", e.Shape, e.Reason)
	}
	return fmt.Sprintf("schema: %s: field %q: %s", e.Shape, e.Field, e.Reason)
}

// StructuralError reports a candidate object missing one of the top-level
// keys the composite schema requires.
type StructuralError struct {
	Key    string
	Reason string
}

func (e *StructuralError) Error() string {
	return fmt.Sprintf("schema: %q: %s", e.Key, e.Reason)
}

// UnsupportedShapeError reports a base_shape.type outside the closed
// ShapeType enumeration.
type UnsupportedShapeError struct {
	Type string
}

func (e *UnsupportedShapeError) Error() string {
	return fmt.Sprintf("schema: unsupported shape type: %q", e.Type)
}
