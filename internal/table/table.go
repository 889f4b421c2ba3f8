package table

import (
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"
)

// MalformedTableError reports a row whose cell count differs from the header row.
type MalformedTableError struct {
	Row  int
	Want int
	Got  int
}

func (e *MalformedTableError) Error() string {
	return fmt.Sprintf("malformed table: row %d has %d cells, expected %d", e.Row, e.Got, e.Want)
}

// Render formats rows as left-aligned, tab-separated text. Every cell except the last one in a
// row is padded with spaces to the display width of its widest cell, and every row ends with a
// newline. Row 0 fixes the column count; an empty input renders as "".
func Render(rows [][]string) (string, error) {
	if len(rows) == 0 {
		return "", nil
	}

	widths, err := columnWidths(rows)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	for _, row := range rows {
		for i, cell := range row {
			if i > 0 {
				b.WriteByte('\t')
			}
			b.WriteString(cell)
			if i < len(row)-1 {
				b.WriteString(strings.Repeat(" ", widths[i]-runewidth.StringWidth(cell)))
			}
		}
		b.WriteByte('\n')
	}
	return b.String(), nil
}

// Write renders rows to w.
func Write(w io.Writer, rows [][]string) error {
	text, err := Render(rows)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, text)
	return err
}

// Widths returns the display width of every column.
func Widths(rows [][]string) ([]int, error) {
	if len(rows) == 0 {
		return nil, nil
	}
	return columnWidths(rows)
}

func columnWidths(rows [][]string) ([]int, error) {
	widths := make([]int, len(rows[0]))
	for r, row := range rows {
		if len(row) != len(widths) {
			return nil, &MalformedTableError{Row: r, Want: len(widths), Got: len(row)}
		}
		for i, cell := range row {
			widths[i] = max(widths[i], runewidth.StringWidth(cell))
		}
	}
	return widths, nil
}
