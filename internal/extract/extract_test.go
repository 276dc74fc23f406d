package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const payload = `{
	"financialData": {"currentPrice": {"raw": 178.5, "fmt": "178.50"}, "totalDebt": {}},
	"name": "Apple",
	"empty": "",
	"rows": [
		{"label": "Revenue", "values": [1, null, "2", 3.5, {"x": 1}, 4]},
		{"label": "ROIC", "values": []},
		{"values": [9]},
		{"label": 12}
	],
	"notArray": {"a": 1}
}`

func mustParse(t *testing.T) Document {
	t.Helper()
	doc, ok := Parse([]byte(payload))
	require.True(t, ok)
	return doc
}

func TestParse_Invalid(t *testing.T) {
	_, ok := Parse([]byte(`{"broken":`))
	assert.False(t, ok)

	_, ok = Parse([]byte(`<html></html>`))
	assert.False(t, ok)
}

func TestNumber(t *testing.T) {
	doc := mustParse(t)

	v, ok := Number(doc, "financialData.currentPrice.raw")
	assert.True(t, ok)
	assert.Equal(t, 178.5, v)

	_, ok = Number(doc, "financialData.currentPrice.fmt")
	assert.False(t, ok, "string values are not numbers")

	_, ok = Number(doc, "financialData.totalDebt.raw")
	assert.False(t, ok, "absent key is missing")

	assert.Nil(t, NumberPtr(doc, "does.not.exist"))
	require.NotNil(t, NumberPtr(doc, "financialData.currentPrice.raw"))
}

func TestString(t *testing.T) {
	doc := mustParse(t)

	s, ok := String(doc, "name")
	assert.True(t, ok)
	assert.Equal(t, "Apple", s)

	_, ok = String(doc, "empty")
	assert.False(t, ok)

	assert.Nil(t, StringPtr(doc, "financialData"))
}

func TestNumbers_DropsNonNumeric(t *testing.T) {
	doc := mustParse(t)

	assert.Equal(t, []float64{1, 3.5, 4}, Numbers(doc, "rows.0.values"))
	assert.Nil(t, Numbers(doc, "rows.1.values"))
	assert.Nil(t, Numbers(doc, "notArray"))
	assert.Nil(t, Numbers(doc, "missing"))
}

func TestIndex(t *testing.T) {
	doc := mustParse(t)

	idx := Index(doc, "rows", "label")
	assert.Len(t, idx, 2)
	assert.Equal(t, []float64{1, 3.5, 4}, Numbers(idx["Revenue"], "values"))
	assert.Empty(t, Index(doc, "notArray", "label"))
}

func TestPercent(t *testing.T) {
	assert.Nil(t, Percent(nil))
	assert.InDeltaSlice(t, []float64{12.5, -3}, Percent([]float64{0.125, -0.03}), 1e-9)
}

func TestPercentText(t *testing.T) {
	tests := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"12.34%", 12.34, true},
		{" 7% ", 7, true},
		{"-5.00%", 0, false},
		{"N/A", 0, false},
		{"12.34", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := PercentText(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}
