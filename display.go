package journal

import (
	"bufio"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"
)

const (
	ansiRed   = "\x1b[31m"
	ansiReset = "\x1b[0m"
)

// RenderOptions controls Matrix.Render.
type RenderOptions struct {
	// Color draws the column separators in red with ANSI escapes.
	Color bool
}

// DisplayOrder returns the column names with time first and the rest
// sorted.
func (m *Matrix) DisplayOrder() []string {
	names := make([]string, 0, len(m.names))
	for _, name := range m.names {
		if name != TimeName {
			names = append(names, name)
		}
	}
	slices.Sort(names)
	if m.Has(TimeName) {
		names = append([]string{TimeName}, names...)
	}
	return names
}

// Render writes m as a right-aligned text table.
func (m *Matrix) Render(w io.Writer, opts RenderOptions) error {
	red, reset := "", ""
	if opts.Color {
		red, reset = ansiRed, ansiReset
	}

	names := m.DisplayOrder()
	widths := make([]int, len(names))
	for i, name := range names {
		widths[i] = max(len(name), m.columns[name].MaxLength()) + 1
	}
	rows := m.NumRows()
	indexWidth := len(strconv.Itoa(rows)) + 1

	bw := bufio.NewWriter(w)
	bw.WriteString(strings.Repeat(" ", indexWidth))
	bw.WriteString(red)
	for i, name := range names {
		fmt.Fprintf(bw, "  | %*s", widths[i], name)
	}
	bw.WriteString("\n")
	bw.WriteString(strings.Repeat("-", indexWidth))
	for i := range names {
		bw.WriteString("--|-")
		bw.WriteString(strings.Repeat("-", widths[i]))
	}
	bw.WriteString(reset)

	for j, row := range m.Rows() {
		fmt.Fprintf(bw, "\n%-*d", indexWidth, j)
		for i, name := range names {
			fmt.Fprintf(bw, "  %s|%s %*s", red, reset, widths[i], row[name].String())
		}
	}
	bw.WriteString("\n")
	return bw.Flush()
}

func (m *Matrix) String() string {
	var b strings.Builder
	_ = m.Render(&b, RenderOptions{})
	return b.String()
}
