package snapio

import (
	"io"
	"strings"
	"unicode"

	"golang.org/x/text/width"
)

// Table renders left-aligned columns. Cell widths are measured in terminal
// cells, so wide East Asian runes count twice and combining marks not at all.
type Table struct {
	io     *IOManager
	header []string
	rows   [][]string
	Gap    int
}

// NewTable starts a table with an optional header row.
func NewTable(m *IOManager, header ...string) *Table {
	return &Table{io: m, header: header, Gap: 2}
}

// Row appends a row; missing cells render empty.
func (t *Table) Row(cells ...string) *Table {
	t.rows = append(t.rows, cells)
	return t
}

// Len returns the number of body rows.
func (t *Table) Len() int { return len(t.rows) }

// Render writes the table to the manager's output.
func (t *Table) Render() error {
	_, err := t.WriteTo(t.io.Out())
	return err
}

// WriteTo writes the table to w. The header is bold when color is supported.
func (t *Table) WriteTo(w io.Writer) (int64, error) {
	widths := t.columnWidths()
	var b strings.Builder
	if len(t.header) > 0 {
		t.writeRow(&b, t.header, widths, true)
	}
	for _, row := range t.rows {
		t.writeRow(&b, row, widths, false)
	}
	n, err := io.WriteString(w, b.String())
	return int64(n), err
}

func (t *Table) columnWidths() []int {
	var widths []int
	measure := func(row []string) {
		for i, cell := range row {
			if i >= len(widths) {
				widths = append(widths, 0)
			}
			if cw := DisplayWidth(cell); cw > widths[i] {
				widths[i] = cw
			}
		}
	}
	measure(t.header)
	for _, row := range t.rows {
		measure(row)
	}
	return widths
}

func (t *Table) writeRow(b *strings.Builder, row []string, widths []int, header bool) {
	last := len(widths) - 1
	for last > 0 && (last >= len(row) || row[last] == "") {
		last--
	}
	for i := 0; i <= last; i++ {
		cell := ""
		if i < len(row) {
			cell = row[i]
		}
		if header {
			b.WriteString(t.io.Bold(cell))
		} else {
			b.WriteString(cell)
		}
		if i < last {
			b.WriteString(strings.Repeat(" ", widths[i]-DisplayWidth(cell)+t.Gap))
		}
	}
	b.WriteByte('\n')
}

// DisplayWidth returns the number of terminal cells s occupies.
func DisplayWidth(s string) int {
	n := 0
	for _, r := range s {
		switch {
		case unicode.Is(unicode.Mn, r), unicode.Is(unicode.Me, r):
		case isWide(r):
			n += 2
		default:
			n++
		}
	}
	return n
}

func isWide(r rune) bool {
	switch width.LookupRune(r).Kind() {
	case width.EastAsianWide, width.EastAsianFullwidth:
		return true
	}
	return false
}
