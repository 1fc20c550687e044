package organism

import (
	"strconv"
	"strings"
)

// Value is the realized value of one property on one organism. Degree
// distributions populate Vector, every other property populates Scalar.
type Value struct {
	Scalar float64
	Vector []float64
}

func (v Value) IsVector() bool {
	return v.Vector != nil
}

// Key identifies the value for equality counting. Vectors compare element-wise.
func (v Value) Key() string {
	if !v.IsVector() {
		return "s:" + formatKeyFloat(v.Scalar)
	}
	var b strings.Builder
	b.WriteString("v:")
	for i, x := range v.Vector {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(formatKeyFloat(x))
	}
	return b.String()
}

// CountDistinct returns the number of distinct values in the slice.
func CountDistinct(values []Value) int {
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		seen[v.Key()] = struct{}{}
	}
	return len(seen)
}

func formatKeyFloat(x float64) string {
	if x == 0 {
		// -0 and 0 are the same value.
		x = 0
	}
	return strconv.FormatFloat(x, 'g', -1, 64)
}
