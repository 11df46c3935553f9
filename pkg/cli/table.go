package cli

import (
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/term"
)

// columnGap is the number of spaces between columns.
const columnGap = 2

// Table renders column-aligned output. Rows are buffered until Flush so
// column widths can be measured, and capped to the terminal width when the
// output is a terminal. Headers and a dash divider precede the first row;
// empty tables produce no output.
type Table struct {
	out      io.Writer
	headers  []string
	rows     [][]string
	prefix   string
	maxWidth int
}

// NewTable creates a table on stdout with the given column headers.
func NewTable(headers ...string) *Table {
	return NewTableTo(os.Stdout, headers...)
}

// NewTableTo creates a table that writes to w.
func NewTableTo(w io.Writer, headers ...string) *Table {
	return &Table{out: w, headers: headers, maxWidth: terminalWidth(w)}
}

// WithPrefix sets a string prepended to each line (headers, divider, rows).
// Useful for indenting sub-tables within larger output.
func (t *Table) WithPrefix(prefix string) *Table {
	t.prefix = prefix
	return t
}

// WithMaxWidth overrides the detected terminal width. Zero disables capping.
func (t *Table) WithMaxWidth(n int) *Table {
	t.maxWidth = n
	return t
}

// Row buffers a row. Missing trailing values render empty.
func (t *Table) Row(values ...string) {
	t.rows = append(t.rows, values)
}

// Flush writes the table. If no rows were added, nothing is printed.
func (t *Table) Flush() {
	if len(t.rows) == 0 {
		return
	}

	widths := make([]int, len(t.headers))
	for i, h := range t.headers {
		widths[i] = visualLen(h)
	}
	for _, row := range t.rows {
		for i := 0; i < len(widths) && i < len(row); i++ {
			if n := visualLen(row[i]); n > widths[i] {
				widths[i] = n
			}
		}
	}
	if t.maxWidth > 0 {
		widths = capWidths(widths, t.headers, t.maxWidth, visualLen(t.prefix))
	}

	t.writeLine(widths, t.headers)
	dividers := make([]string, len(t.headers))
	for i, h := range t.headers {
		dividers[i] = strings.Repeat("-", visualLen(h))
	}
	t.writeLine(widths, dividers)

	for _, row := range t.rows {
		cells := make([][]string, len(widths))
		height := 1
		for i := range widths {
			v := ""
			if i < len(row) {
				v = row[i]
			}
			cells[i] = wrapCell(v, widths[i])
			if len(cells[i]) > height {
				height = len(cells[i])
			}
		}
		for line := 0; line < height; line++ {
			vals := make([]string, len(widths))
			for i := range widths {
				if line < len(cells[i]) {
					vals[i] = cells[i][line]
				}
			}
			t.writeLine(widths, vals)
		}
	}
}

func (t *Table) writeLine(widths []int, vals []string) {
	var b strings.Builder
	b.WriteString(t.prefix)
	for i, v := range vals {
		b.WriteString(v)
		if i < len(vals)-1 {
			b.WriteString(strings.Repeat(" ", max(widths[i]-visualLen(v), 0)+columnGap))
		}
	}
	fmt.Fprintln(t.out, strings.TrimRight(b.String(), " "))
}

func terminalWidth(w io.Writer) int {
	f, ok := w.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return 0
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil {
		return 0
	}
	return width
}

var ansiRe = regexp.MustCompile(`\x1b\[[0-9;]*m`)

// visualLen is the printed width of s, ignoring ANSI color codes.
func visualLen(s string) int {
	return utf8.RuneCountInString(ansiRe.ReplaceAllString(s, ""))
}

// capWidths shrinks the widest columns until the table fits in termWidth.
// No column goes below its header width, so the result may still overflow.
func capWidths(widths []int, headers []string, termWidth, prefix int) []int {
	out := make([]int, len(widths))
	copy(out, widths)

	minW := make([]int, len(out))
	for i := range out {
		if i < len(headers) {
			minW[i] = visualLen(headers[i])
		}
	}

	total := prefix + columnGap*(len(out)-1)
	for _, w := range out {
		total += w
	}

	for total > termWidth {
		widest := -1
		for i, w := range out {
			if w > minW[i] && (widest < 0 || w > out[widest]) {
				widest = i
			}
		}
		if widest < 0 {
			break
		}
		out[widest]--
		total--
	}
	return out
}

// wrapCell splits s into lines no wider than width, breaking at spaces and
// hard-breaking words longer than width. A cell that fits is returned
// unchanged, color codes included.
func wrapCell(s string, width int) []string {
	if width <= 0 || visualLen(s) <= width {
		return []string{s}
	}

	var lines []string
	cur := ""
	for _, word := range strings.Fields(ansiRe.ReplaceAllString(s, "")) {
		for utf8.RuneCountInString(word) > width {
			if cur != "" {
				lines = append(lines, cur)
				cur = ""
			}
			r := []rune(word)
			lines = append(lines, string(r[:width]))
			word = string(r[width:])
		}
		switch {
		case cur == "":
			cur = word
		case utf8.RuneCountInString(cur)+1+utf8.RuneCountInString(word) <= width:
			cur += " " + word
		default:
			lines = append(lines, cur)
			cur = word
		}
	}
	if cur != "" {
		lines = append(lines, cur)
	}
	return lines
}
