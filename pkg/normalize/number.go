package normalize

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
)

// NormalizeNumber turns a spreadsheet cell into a float. Numbers pass through,
// strings are stripped of spaces, currency labels and thousands separators.
// Anything that cannot be read as a finite number becomes 0.
func NormalizeNumber(v any) float64 {
	var f float64
	switch n := v.(type) {
	case nil:
		return 0
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int64:
		f = float64(n)
	case json.Number:
		var err error
		if f, err = n.Float64(); err != nil {
			f = parseLoose(n.String())
		}
	case string:
		f = parseLoose(n)
	default:
		return 0
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

func parseLoose(s string) float64 {
	if s == "" {
		return 0
	}
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsSpace(r) {
			continue
		}
		if (r >= '0' && r <= '9') || r == '.' || r == ',' || r == '-' {
			b.WriteRune(r)
		}
	}
	cleaned := strings.Replace(b.String(), ",", ".", 1)
	if cleaned == "" {
		return 0
	}
	f, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0
	}
	return f
}

// ComputeSubtotal returns price*quantity rounded half up to a whole amount.
func ComputeSubtotal(price, quantity float64) float64 {
	total := decimal.NewFromFloat(price).Mul(decimal.NewFromFloat(quantity))
	// halves go towards +Inf, so -2.5 becomes -2
	rounded := total.Add(decimal.NewFromFloat(0.5)).Floor()
	f, _ := rounded.Float64()
	return f
}
