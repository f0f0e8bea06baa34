package output

import (
	"strings"
	"unicode/utf8"
)

// ColumnSeparator divides aligned columns and presenter labels from values.
const ColumnSeparator = "┃"

// ColumnRow is one line of a two-column block followed by free-form detail text.
type ColumnRow struct {
	Left   string
	Right  string
	Detail string
}

// Columns holds the widths of the two aligned columns of a block.
type Columns struct {
	Left  int
	Right int
}

// MeasureColumns returns the widest left and right cell across rows.
// Widths are counted in characters, so multi-byte keys and statuses align.
func MeasureColumns(rows []ColumnRow) Columns {
	var columns Columns
	for _, row := range rows {
		if width := textWidth(row.Left); width > columns.Left {
			columns.Left = width
		}
		if width := textWidth(row.Right); width > columns.Right {
			columns.Right = width
		}
	}
	return columns
}

// Format renders row, cells joined by separator, with both cells padded to the measured widths.
// decorateRight, when set, receives the already padded right cell so that
// escape sequences never disturb alignment.
func (columns Columns) Format(row ColumnRow, separator string, decorateRight func(string) string) string {
	right := PadRight(row.Right, columns.Right)
	if decorateRight != nil {
		right = decorateRight(right)
	}
	return strings.Join([]string{PadRight(row.Left, columns.Left), separator, right, separator, row.Detail}, " ")
}

// PadRight left-justifies text in a field of width characters.
func PadRight(text string, width int) string {
	missing := width - textWidth(text)
	if missing <= 0 {
		return text
	}
	return text + strings.Repeat(" ", missing)
}

func textWidth(text string) int {
	return utf8.RuneCountInString(text)
}
