package schema

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ShapeType is the closed enumeration of supported base shapes. Each value
// maps to exactly one Dimensions variant; unknown type strings are a
// validation failure, never a silent default.
type ShapeType string

const (
	ShapeRectangle ShapeType = "rectangle"
	ShapeCircle    ShapeType = "circle"
	ShapeTriangle  ShapeType = "triangle"
	ShapePolygon   ShapeType = "polygon"
	ShapeEllipse   ShapeType = "ellipse"
	ShapeSlot      ShapeType = "slot"
	ShapeArc       ShapeType = "arc"
	ShapeBox       ShapeType = "box"
	ShapeCylinder  ShapeType = "cylinder"
	ShapeCone      ShapeType = "cone"
	ShapeSphere    ShapeType = "sphere"
	ShapeTorus     ShapeType = "torus"
	ShapePyramid   ShapeType = "pyramid"
)

// SupportedShapeTypes lists every member of the enumeration in declaration
// order. The extraction prompt is built from this list so the prompt
// vocabulary and the schemas cannot drift apart.
func SupportedShapeTypes() []ShapeType {
	return []ShapeType{
		ShapeRectangle, ShapeCircle, ShapeTriangle, ShapePolygon,
		ShapeEllipse, ShapeSlot, ShapeArc, ShapeBox, ShapeCylinder,
		ShapeCone, ShapeSphere, ShapeTorus, ShapePyramid,
	}
}

// ParseShapeType resolves a raw type string against the enumeration.
func ParseShapeType(s string) (ShapeType, error) {
	switch t := ShapeType(s); t {
	case ShapeRectangle, ShapeCircle, ShapeTriangle, ShapePolygon,
		ShapeEllipse, ShapeSlot, ShapeArc, ShapeBox, ShapeCylinder,
		ShapeCone, ShapeSphere, ShapeTorus, ShapePyramid:
		return t, nil
	}
	return "", &UnsupportedShapeError{Type: s}
}

// Dimensions is the tagged-union interface over per-shape dimension records.
// Concrete variants are plain structs so a validated object serializes back
// to the same mapping it was built from.
type Dimensions interface {
	shapeType() ShapeType
}

type RectangleDimensions struct {
	Width     Measurement `json:"width"`
	Height    Measurement `json:"height"`
	Thickness Measurement `json:"thickness"`
}

type CircleDimensions struct {
	Diameter  Measurement `json:"diameter,omitempty"`
	Radius    Measurement `json:"radius,omitempty"`
	Thickness Measurement `json:"thickness"`
}

type TriangleDimensions struct {
	Side1     Measurement `json:"side_1"`
	Side2     Measurement `json:"side_2"`
	Side3     Measurement `json:"side_3"`
	Thickness Measurement `json:"thickness"`
}

type PolygonDimensions struct {
	NumberOfSides int         `json:"number_of_sides"`
	SideLength    Measurement `json:"side_length"`
	Thickness     Measurement `json:"thickness"`
}

type EllipseDimensions struct {
	MajorAxis Measurement `json:"major_axis"`
	MinorAxis Measurement `json:"minor_axis"`
	Thickness Measurement `json:"thickness"`
}

type SlotDimensions struct {
	Length       Measurement `json:"length"`
	Width        Measurement `json:"width"`
	CornerRadius Measurement `json:"corner_radius"`
	Thickness    Measurement `json:"thickness"`
}

type ArcDimensions struct {
	Radius    Measurement `json:"radius"`
	Angle     Measurement `json:"angle"`
	Thickness Measurement `json:"thickness"`
}

// BoxDimensions has no thickness; a box is solid.
type BoxDimensions struct {
	Width  Measurement `json:"width"`
	Height Measurement `json:"height"`
	Depth  Measurement `json:"depth"`
}

type CylinderDimensions struct {
	Diameter Measurement `json:"diameter"`
	Height   Measurement `json:"height"`
}

type ConeDimensions struct {
	BaseDiameter Measurement `json:"base_diameter"`
	TopDiameter  Measurement `json:"top_diameter"`
	Height       Measurement `json:"height"`
}

type SphereDimensions struct {
	Diameter Measurement `json:"diameter"`
}

type TorusDimensions struct {
	MajorRadius Measurement `json:"major_radius"`
	MinorRadius Measurement `json:"minor_radius"`
}

// PyramidDimensions keeps base_dimensions as an opaque mapping. Its inner
// shape depends on base_shape and is not recursively schema-checked.
type PyramidDimensions struct {
	BaseShape      string                     `json:"base_shape"`
	BaseDimensions map[string]json.RawMessage `json:"base_dimensions"`
	Height         Measurement                `json:"height"`
}

func (RectangleDimensions) shapeType() ShapeType { return ShapeRectangle }
func (CircleDimensions) shapeType() ShapeType    { return ShapeCircle }
func (TriangleDimensions) shapeType() ShapeType  { return ShapeTriangle }
func (PolygonDimensions) shapeType() ShapeType   { return ShapePolygon }
func (EllipseDimensions) shapeType() ShapeType   { return ShapeEllipse }
func (SlotDimensions) shapeType() ShapeType      { return ShapeSlot }
func (ArcDimensions) shapeType() ShapeType       { return ShapeArc }
func (BoxDimensions) shapeType() ShapeType       { return ShapeBox }
func (CylinderDimensions) shapeType() ShapeType  { return ShapeCylinder }
func (ConeDimensions) shapeType() ShapeType      { return ShapeCone }
func (SphereDimensions) shapeType() ShapeType    { return ShapeSphere }
func (TorusDimensions) shapeType() ShapeType     { return ShapeTorus }
func (PyramidDimensions) shapeType() ShapeType   { return ShapePyramid }

// ValidateDimensions validates a raw dimension mapping against the schema of
// the given shape type and returns the typed variant. Schemas are closed:
// a field not declared by the shape fails validation instead of being
// silently dropped.
func ValidateDimensions(shape ShapeType, dims map[string]json.RawMessage) (Dimensions, error) {
	switch shape {
	case ShapeRectangle:
		var d RectangleDimensions
		if err := decodeClosed(shape, dims, &d,
			[]string{"width", "height", "thickness"}, nil); err != nil {
			return nil, err
		}
		return d, checkMeasurements(shape,
			field{"width", d.Width}, field{"height", d.Height}, field{"thickness", d.Thickness})
	case ShapeCircle:
		var d CircleDimensions
		if err := decodeClosed(shape, dims, &d,
			[]string{"thickness"}, []string{"diameter", "radius"}); err != nil {
			return nil, err
		}
		if err := d.reconcile(); err != nil {
			return nil, err
		}
		return d, checkMeasurements(shape, field{"thickness", d.Thickness})
	case ShapeTriangle:
		var d TriangleDimensions
		if err := decodeClosed(shape, dims, &d,
			[]string{"side_1", "side_2", "side_3", "thickness"}, nil); err != nil {
			return nil, err
		}
		return d, checkMeasurements(shape,
			field{"side_1", d.Side1}, field{"side_2", d.Side2},
			field{"side_3", d.Side3}, field{"thickness", d.Thickness})
	case ShapePolygon:
		var d PolygonDimensions
		if err := decodeClosed(shape, dims, &d,
			[]string{"number_of_sides", "side_length", "thickness"}, nil); err != nil {
			return nil, err
		}
		if d.NumberOfSides < 3 {
			return nil, &ValidationError{Shape: shape, Field: "number_of_sides",
				Reason: fmt.Sprintf("must be at least 3, got %d", d.NumberOfSides)}
		}
		return d, checkMeasurements(shape,
			field{"side_length", d.SideLength}, field{"thickness", d.Thickness})
	case ShapeEllipse:
		var d EllipseDimensions
		if err := decodeClosed(shape, dims, &d,
			[]string{"major_axis", "minor_axis", "thickness"}, nil); err != nil {
			return nil, err
		}
		return d, checkMeasurements(shape,
			field{"major_axis", d.MajorAxis}, field{"minor_axis", d.MinorAxis},
			field{"thickness", d.Thickness})
	case ShapeSlot:
		var d SlotDimensions
		if err := decodeClosed(shape, dims, &d,
			[]string{"length", "width", "corner_radius", "thickness"}, nil); err != nil {
			return nil, err
		}
		return d, checkMeasurements(shape,
			field{"length", d.Length}, field{"width", d.Width},
			field{"corner_radius", d.CornerRadius}, field{"thickness", d.Thickness})
	case ShapeArc:
		var d ArcDimensions
		if err := decodeClosed(shape, dims, &d,
			[]string{"radius", "angle", "thickness"}, nil); err != nil {
			return nil, err
		}
		return d, checkMeasurements(shape,
			field{"radius", d.Radius}, field{"angle", d.Angle}, field{"thickness", d.Thickness})
	case ShapeBox:
		var d BoxDimensions
		if err := decodeClosed(shape, dims, &d,
			[]string{"width", "height", "depth"}, nil); err != nil {
			return nil, err
		}
		return d, checkMeasurements(shape,
			field{"width", d.Width}, field{"height", d.Height}, field{"depth", d.Depth})
	case ShapeCylinder:
		var d CylinderDimensions
		if err := decodeClosed(shape, dims, &d,
			[]string{"diameter", "height"}, nil); err != nil {
			return nil, err
		}
		return d, checkMeasurements(shape,
			field{"diameter", d.Diameter}, field{"height", d.Height})
	case ShapeCone:
		var d ConeDimensions
		if err := decodeClosed(shape, dims, &d,
			[]string{"base_diameter", "top_diameter", "height"}, nil); err != nil {
			return nil, err
		}
		return d, checkMeasurements(shape,
			field{"base_diameter", d.BaseDiameter}, field{"top_diameter", d.TopDiameter},
			field{"height", d.Height})
	case ShapeSphere:
		var d SphereDimensions
		if err := decodeClosed(shape, dims, &d, []string{"diameter"}, nil); err != nil {
			return nil, err
		}
		return d, checkMeasurements(shape, field{"diameter", d.Diameter})
	case ShapeTorus:
		var d TorusDimensions
		if err := decodeClosed(shape, dims, &d,
			[]string{"major_radius", "minor_radius"}, nil); err != nil {
			return nil, err
		}
		return d, checkMeasurements(shape,
			field{"major_radius", d.MajorRadius}, field{"minor_radius", d.MinorRadius})
	case ShapePyramid:
		var d PyramidDimensions
		if err := decodeClosed(shape, dims, &d,
			[]string{"base_shape", "base_dimensions", "height"}, nil); err != nil {
			return nil, err
		}
		if strings.TrimSpace(d.BaseShape) == "" {
			return nil, &ValidationError{Shape: shape, Field: "base_shape",
				Reason: "must name a 2D base shape"}
		}
		return d, checkMeasurements(shape, field{"height", d.Height})
	}
	return nil, &UnsupportedShapeError{Type: string(shape)}
}

// reconcile enforces the radius/diameter relationship: at least one must be
// present, and a diameter derived from a lone radius is retained so both
// fields stay mutually consistent.
func (d *CircleDimensions) reconcile() error {
	if d.Diameter == "" && d.Radius == "" {
		return &ValidationError{Shape: ShapeCircle, Field: "radius",
			Reason: "either radius or diameter must be provided"}
	}
	if d.Radius != "" {
		r, err := d.Radius.Millimetres()
		if err != nil {
			return &ValidationError{Shape: ShapeCircle, Field: "radius", Reason: err.Error()}
		}
		if d.Diameter == "" {
			d.Diameter = FormatMillimetres(2 * r)
		}
	}
	if d.Diameter != "" {
		if _, err := d.Diameter.Millimetres(); err != nil {
			return &ValidationError{Shape: ShapeCircle, Field: "diameter", Reason: err.Error()}
		}
	}
	return nil
}

type field struct {
	name  string
	value Measurement
}

// checkMeasurements verifies that every listed field parses to a
// non-negative millimetre magnitude.
func checkMeasurements(shape ShapeType, fields ...field) error {
	for _, f := range fields {
		if _, err := f.value.Millimetres(); err != nil {
			return &ValidationError{Shape: shape, Field: f.name, Reason: err.Error()}
		}
	}
	return nil
}

// decodeClosed checks field presence against the declared required/optional
// sets, rejects undeclared fields, and decodes the mapping into the variant.
func decodeClosed(shape ShapeType, dims map[string]json.RawMessage, out any, required, optional []string) error {
	allowed := make(map[string]bool, len(required)+len(optional))
	for _, f := range required {
		allowed[f] = true
	}
	for _, f := range optional {
		allowed[f] = true
	}
	keys := make([]string, 0, len(dims))
	for k := range dims {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if !allowed[k] {
			return &ValidationError{Shape: shape, Field: k, Reason: "unknown field"}
		}
	}
	for _, f := range required {
		if _, ok := dims[f]; !ok {
			return &ValidationError{Shape: shape, Field: f, Reason: "required field is missing"}
		}
	}
	b, err := json.Marshal(dims)
	if err != nil {
		return &ValidationError{Shape: shape, Reason: err.Error()}
	}
	if err := json.Unmarshal(b, out); err != nil {
		var te *json.UnmarshalTypeError
		if errors.As(err, &te) {
			return &ValidationError{Shape: shape, Field: te.Field,
				Reason: fmt.Sprintf("wrong kind: got %s", te.Value)}
		}
		return &ValidationError{Shape: shape, Reason: err.Error()}
	}
	return nil
}
