package cutlist

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Row is one rendered line of a cut sheet.
type Row struct {
	Role     Role   `json:"role"`
	Label    string `json:"label"`
	Width    string `json:"width"`
	Height   string `json:"height"`
	Quantity int    `json:"quantity"`
	Text     string `json:"text"`
}

// FormatValue renders a dimension rounded half away from zero to one
// decimal place. Whole values drop the decimal, so raw inputs render as
// entered and derived values render with one decimal.
func FormatValue(v float64) string {
	return decimal.NewFromFloat(v).Round(1).String()
}

// FormatSpec renders a spec the way the cut sheet prints it,
// e.g. "70x49.4 ( x 2 )".
func FormatSpec(s PieceSpec) string {
	return fmt.Sprintf("%sx%s ( x %d )", FormatValue(s.Width), FormatValue(s.Height), s.Quantity)
}

// Format renders every piece of c in display order.
func Format(c CutList) []Row {
	rows := make([]Row, 0, len(c.pieces))
	for _, p := range c.pieces {
		rows = append(rows, Row{
			Role:     p.Role,
			Label:    p.Role.Label(),
			Width:    FormatValue(p.Spec.Width),
			Height:   FormatValue(p.Spec.Height),
			Quantity: p.Spec.Quantity,
			Text:     FormatSpec(p.Spec),
		})
	}
	return rows
}
