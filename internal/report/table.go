package report

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// table is a header plus rows of preformatted cells. Numeric columns are
// right aligned.
type table struct {
	header  []string
	numeric []bool
	rows    [][]string
}

func (t *table) widths() []int {
	w := make([]int, len(t.header))
	for i, h := range t.header {
		w[i] = runewidth.StringWidth(h)
	}
	for _, row := range t.rows {
		for i := 0; i < len(row) && i < len(w); i++ {
			if cw := runewidth.StringWidth(row[i]); cw > w[i] {
				w[i] = cw
			}
		}
	}
	for i := range w {
		if w[i] < 3 {
			w[i] = 3
		}
	}
	return w
}

func (t *table) pad(s string, width int, right bool) string {
	gap := width - runewidth.StringWidth(s)
	if gap <= 0 {
		return s
	}
	if right {
		return strings.Repeat(" ", gap) + s
	}
	return s + strings.Repeat(" ", gap)
}

// plain renders the table as space-separated aligned columns with a dashed
// rule under the header.
func (t *table) plain() []string {
	w := t.widths()
	lines := make([]string, 0, len(t.rows)+2)
	lines = append(lines, t.line(t.header, w, "", "  ", ""))

	rule := make([]string, len(w))
	for i := range w {
		rule[i] = strings.Repeat("-", w[i])
	}
	lines = append(lines, strings.Join(rule, "  "))

	for _, row := range t.rows {
		lines = append(lines, t.line(row, w, "", "  ", ""))
	}
	return lines
}

// markdownEscaper backslash-escapes cell text that would split a row or
// turn into markup.
var markdownEscaper = strings.NewReplacer(
	`\`, `\\`,
	"|", `\|`,
	"*", `\*`,
	"_", `\_`,
	"`", "\\`",
	"<", `\<`,
	"[", `\[`,
	"&", `\&`,
)

// escaped returns a copy of t with every cell escaped for markdown.
func (t *table) escaped() *table {
	out := &table{header: make([]string, len(t.header)), numeric: t.numeric, rows: make([][]string, len(t.rows))}
	for i, h := range t.header {
		out.header[i] = markdownEscaper.Replace(h)
	}
	for i, row := range t.rows {
		out.rows[i] = make([]string, len(row))
		for j, cell := range row {
			out.rows[i][j] = markdownEscaper.Replace(cell)
		}
	}
	return out
}

// markdown renders the table as a GitHub-flavored markdown table with
// padded, escaped cells.
func (t *table) markdown() []string {
	t = t.escaped()
	w := t.widths()
	lines := make([]string, 0, len(t.rows)+2)
	lines = append(lines, t.line(t.header, w, "| ", " | ", " |"))

	var sb strings.Builder
	sb.WriteString("|")
	for i := range w {
		sb.WriteString(" ")
		if t.numeric[i] {
			sb.WriteString(strings.Repeat("-", w[i]-1) + ":")
		} else {
			sb.WriteString(strings.Repeat("-", w[i]))
		}
		sb.WriteString(" |")
	}
	lines = append(lines, sb.String())

	for _, row := range t.rows {
		lines = append(lines, t.line(row, w, "| ", " | ", " |"))
	}
	return lines
}

func (t *table) line(cells []string, w []int, open, sep, closing string) string {
	parts := make([]string, len(w))
	for i := range w {
		cell := ""
		if i < len(cells) {
			cell = cells[i]
		}
		parts[i] = t.pad(cell, w[i], t.numeric[i])
	}
	return strings.TrimRight(open+strings.Join(parts, sep)+closing, " ")
}
