package report

import (
	"encoding/json"
	"strconv"
)

// Ratio is a quotient that may be undefined because its denominator was not
// positive. Undefined ratios encode as JSON null.
type Ratio struct {
	Value float64
	Valid bool
}

// Divide returns num/den, or an undefined Ratio when den is not positive.
func Divide(num, den float64) Ratio {
	if den <= 0 {
		return Ratio{}
	}
	return Ratio{Value: num / den, Valid: true}
}

// String renders the value with two decimals, or an em dash when undefined.
func (r Ratio) String() string {
	if !r.Valid {
		return "—"
	}
	return strconv.FormatFloat(r.Value, 'f', 2, 64)
}

// Percent renders the value as a whole percentage.
func (r Ratio) Percent() string {
	if !r.Valid {
		return "—"
	}
	return strconv.FormatFloat(r.Value*100, 'f', 0, 64) + "%"
}

func (r Ratio) MarshalJSON() ([]byte, error) {
	if !r.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(r.Value)
}
