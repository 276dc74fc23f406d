// Package extract pulls typed values out of semi-structured provider payloads.
//
// Lookups never fail loudly: an absent key, a value of the wrong type or an
// empty collection all come back as "missing" (ok == false, nil pointer or nil
// slice). Paths use gjson syntax, e.g. "financialData.currentPrice.raw".
package extract

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

// Document is a parsed JSON payload.
type Document = gjson.Result

// Parse validates raw as JSON and returns it as a Document.
func Parse(raw []byte) (Document, bool) {
	if !gjson.ValidBytes(raw) {
		return gjson.Result{}, false
	}
	return gjson.ParseBytes(raw), true
}

// Number returns the number at path.
func Number(doc Document, path string) (float64, bool) {
	return number(doc.Get(path))
}

// NumberPtr is Number with missing mapped to nil.
func NumberPtr(doc Document, path string) *float64 {
	v, ok := Number(doc, path)
	if !ok {
		return nil
	}
	return &v
}

// String returns the non-empty string at path.
func String(doc Document, path string) (string, bool) {
	r := doc.Get(path)
	if r.Type != gjson.String || r.Str == "" {
		return "", false
	}
	return r.Str, true
}

// StringPtr is String with missing mapped to nil.
func StringPtr(doc Document, path string) *string {
	v, ok := String(doc, path)
	if !ok {
		return nil
	}
	return &v
}

// Numbers returns the numeric members of the array at path, in order.
// Nulls, strings and other non-numeric members are dropped. A missing or empty
// array yields nil.
func Numbers(doc Document, path string) []float64 {
	r := doc.Get(path)
	if !r.IsArray() {
		return nil
	}

	var out []float64
	for _, member := range r.Array() {
		if v, ok := number(member); ok {
			out = append(out, v)
		}
	}
	return out
}

// Index keys the objects of the array at path by their string field key.
// Members without the key are skipped; later duplicates win.
func Index(doc Document, path, key string) map[string]Document {
	out := make(map[string]Document)
	r := doc.Get(path)
	if !r.IsArray() {
		return out
	}
	for _, member := range r.Array() {
		label := member.Get(key)
		if label.Type != gjson.String || label.Str == "" {
			continue
		}
		out[label.Str] = member
	}
	return out
}

// Percent scales fractional values to percentages.
func Percent(values []float64) []float64 {
	if values == nil {
		return nil
	}
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = v * 100
	}
	return out
}

var percentPattern = regexp.MustCompile(`^(\d+(\.\d+)?)%`)

// PercentText parses text that starts with a percentage such as "12.34%" and
// returns the number before the sign.
func PercentText(text string) (float64, bool) {
	m := percentPattern.FindStringSubmatch(strings.TrimSpace(text))
	if m == nil {
		return 0, false
	}
	v, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func number(r gjson.Result) (float64, bool) {
	if r.Type != gjson.Number {
		return 0, false
	}
	if math.IsNaN(r.Num) || math.IsInf(r.Num, 0) {
		return 0, false
	}
	return r.Num, true
}
