package docconv

import (
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"
)

var markdownEscape = strings.NewReplacer("|", `\|`, "\r\n", " ", "\n", " ", "\r", " ")

func writeMarkdown(w io.Writer, rs RecordSet) error {
	header := rs.header()
	if len(header) == 0 {
		return nil
	}
	cols, err := newColumns(Markdown, header, rs.Records)
	if err != nil {
		return err
	}

	head := make([]string, len(header))
	for i, name := range header {
		head[i] = markdownEscape.Replace(name)
	}
	rows := make([][]string, len(rs.Records))
	for i, rec := range rs.Records {
		rows[i] = cols.row(rec, nil)
		for j, cell := range rows[i] {
			rows[i][j] = markdownEscape.Replace(cell)
		}
	}

	// Minimum width 3 so the separator row is valid.
	widths := make([]int, len(head))
	for i, col := range head {
		widths[i] = max(3, runewidth.StringWidth(col))
	}
	for _, row := range rows {
		for i, cell := range row {
			widths[i] = max(widths[i], runewidth.StringWidth(cell))
		}
	}

	if err := writeMarkdownRow(w, head, widths); err != nil {
		return err
	}
	sep := make([]string, len(widths))
	for i, width := range widths {
		sep[i] = strings.Repeat("-", width)
	}
	if _, err := fmt.Fprintf(w, "| %s |\n", strings.Join(sep, " | ")); err != nil {
		return err
	}
	for _, row := range rows {
		if err := writeMarkdownRow(w, row, widths); err != nil {
			return err
		}
	}
	return nil
}

func writeMarkdownRow(w io.Writer, cells []string, widths []int) error {
	padded := make([]string, len(widths))
	for i, width := range widths {
		padded[i] = padCell(cells[i], width)
	}
	_, err := fmt.Fprintf(w, "| %s |\n", strings.Join(padded, " | "))
	return err
}

func padCell(s string, width int) string {
	pad := width - runewidth.StringWidth(s)
	if pad <= 0 {
		return s
	}
	return s + strings.Repeat(" ", pad)
}
