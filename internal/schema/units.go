package schema

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Measurement is a millimetre-denominated dimension value as it appears on
// the wire, e.g. "10mm", "2.5 mm" or a bare "10". Unit conversion from cm or
// inches is the extraction collaborator's contract; a value carrying any
// suffix other than "mm" fails to parse here rather than being stored as-is.
type Measurement string

// Millimetres parses the numeric magnitude of the measurement. The optional
// "mm" suffix is stripped and surrounding whitespace is trimmed before the
// numeric parse. Negative magnitudes are rejected.
func (m Measurement) Millimetres() (float64, error) {
	s := strings.TrimSpace(string(m))
	s = strings.TrimSuffix(s, "mm")
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("%w: %q", ErrMalformedMeasurement, string(m))
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrMalformedMeasurement, string(m))
	}
	if v < 0 {
		return 0, fmt.Errorf("%w: negative value %q", ErrMalformedMeasurement, string(m))
	}
	return v, nil
}

// FormatMillimetres serializes a magnitude back to the wire form, trimming
// trailing zeros so 20.0 renders as "20mm".
func FormatMillimetres(v float64) Measurement {
	return Measurement(strconv.FormatFloat(v, 'f', -1, 64) + "mm")
}

// NormalizeFieldNames renames an "extrusion" key to "thickness" when
// "thickness" is absent. It is applied exactly once, to the base shape's
// dimension mapping only, before shape-schema validation. The input mapping
// is not mutated.
func NormalizeFieldNames(dims map[string]json.RawMessage) map[string]json.RawMessage {
	raw, ok := dims["extrusion"]
	if !ok {
		return dims
	}
	if _, ok := dims["thickness"]; ok {
		return dims
	}
	out := make(map[string]json.RawMessage, len(dims))
	for k, v := range dims {
		if k == "extrusion" {
			continue
		}
		out[k] = v
	}
	out["thickness"] = raw
	return out
}
