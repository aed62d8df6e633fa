package schema

import (
	"encoding/json"
	"fmt"
	"strings"
)

// BaseShape is the primary geometric primitive of a CAD object. Dimensions
// holds the typed variant matching Type.
type BaseShape struct {
	Type       ShapeType  `json:"type"`
	Dimensions Dimensions `json:"dimensions"`
}

// Feature is a secondary modification applied to the base shape (a hole, a
// cut, ...). The feature vocabulary is open-ended, so beyond the required
// type no shape-schema cross-check is performed.
type Feature struct {
	Type       string                     `json:"type"`
	Location   string                     `json:"location,omitempty"`
	Position   string                     `json:"position,omitempty"`
	Shape      string                     `json:"shape,omitempty"`
	Diameter   Measurement                `json:"diameter,omitempty"`
	Dimensions map[string]json.RawMessage `json:"dimensions,omitempty"`
}

// CADObject is the root validated entity: one base shape plus an ordered
// feature list. It is built once per prompt and never mutated afterwards.
type CADObject struct {
	BaseShape BaseShape `json:"base_shape"`
	Features  []Feature `json:"features"`
}

type rawObject struct {
	BaseShape json.RawMessage `json:"base_shape"`
	Features  json.RawMessage `json:"features"`
}

type rawBaseShape struct {
	Type       string                     `json:"type"`
	Dimensions map[string]json.RawMessage `json:"dimensions"`
}

// ValidateCADObject validates a decoded candidate document end to end:
// required top-level keys, shape-type resolution, field-name normalization,
// dimension-schema validation, then feature construction in order. Any
// single failure aborts the whole validation; no partial object is returned.
func ValidateCADObject(data []byte) (*CADObject, error) {
	var raw rawObject
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	if len(raw.BaseShape) == 0 || string(raw.BaseShape) == "null" {
		return nil, &StructuralError{Key: "base_shape", Reason: "required key is missing"}
	}
	if len(raw.Features) == 0 || string(raw.Features) == "null" {
		return nil, &StructuralError{Key: "features", Reason: "required key is missing"}
	}

	var rbs rawBaseShape
	if err := json.Unmarshal(raw.BaseShape, &rbs); err != nil {
		return nil, &StructuralError{Key: "base_shape", Reason: err.Error()}
	}
	shape, err := ParseShapeType(strings.TrimSpace(rbs.Type))
	if err != nil {
		return nil, err
	}

	dims, err := ValidateDimensions(shape, NormalizeFieldNames(rbs.Dimensions))
	if err != nil {
		return nil, err
	}

	var features []Feature
	if err := json.Unmarshal(raw.Features, &features); err != nil {
		return nil, &StructuralError{Key: "features", Reason: err.Error()}
	}
	for i, f := range features {
		if strings.TrimSpace(f.Type) == "" {
			return nil, &ValidationError{Shape: shape, Field: "type",
				Reason: fmt.Sprintf("features[%d]: type is required", i)}
		}
	}
	if features == nil {
		features = []Feature{}
	}

	return &CADObject{
		BaseShape: BaseShape{Type: shape, Dimensions: dims},
		Features:  features,
	}, nil
}
