package report

import "encoding/json"

// Color is the qualitative band attached to a value, encoded as the hex code
// (or CSS name) the front end paints with. ColorNone is encoded as null.
type Color string

const (
	ColorGreen  Color = "#89e051"
	ColorYellow Color = "#f1e05a"
	ColorOrange Color = "#f7523f"
	ColorRed    Color = "#701516"
	ColorGrey   Color = "grey"
	ColorNone   Color = ""
)

// MarshalJSON implements json.Marshaler
func (c Color) MarshalJSON() ([]byte, error) {
	if c == ColorNone {
		return []byte("null"), nil
	}
	return json.Marshal(string(c))
}

// Bands are the three thresholds that split values into four colors.
type Bands [3]float64

// Range colors a value where higher is better. From bands[2] up is green,
// [bands[1], bands[2]) is yellow, [bands[0], bands[1]) is orange and anything
// lower is red. A missing value is grey.
func Range(value *float64, bands Bands) Color {
	if value == nil {
		return ColorGrey
	}
	v := *value
	switch {
	case v >= bands[2]:
		return ColorGreen
	case v >= bands[1]:
		return ColorYellow
	case v >= bands[0]:
		return ColorOrange
	default:
		return ColorRed
	}
}

// ZeroBasedRange colors a value where lower is better: below bands[0] is
// green, then yellow, orange, and red from bands[2] up. A missing value is grey.
func ZeroBasedRange(value *float64, bands Bands) Color {
	if value == nil {
		return ColorGrey
	}
	v := *value
	switch {
	case v >= bands[2]:
		return ColorRed
	case v >= bands[1]:
		return ColorOrange
	case v >= bands[0]:
		return ColorYellow
	default:
		return ColorGreen
	}
}
