package docconv

import (
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"
)

// tableWrapWidth is the display width at which cell text continues on the
// next line of the same row.
const tableWrapWidth = 48

type borderChars struct {
	topLeft, topRight, bottomLeft, bottomRight string
	horizontal, vertical                       string
	topTee, bottomTee, leftTee, rightTee       string
	cross                                      string
}

var roundedBorder = borderChars{
	topLeft: "╭", topRight: "╮", bottomLeft: "╰", bottomRight: "╯",
	horizontal: "─", vertical: "│",
	topTee: "┬", bottomTee: "┴", leftTee: "├", rightTee: "┤",
	cross: "┼",
}

// writeTable renders a rounded box table for terminals. Multi-line and long
// cells wrap inside their row, so no text is cut.
func writeTable(w io.Writer, rs RecordSet) error {
	header := rs.header()
	if len(header) == 0 {
		return nil
	}
	cols, err := newColumns(Table, header, rs.Records)
	if err != nil {
		return err
	}

	head := wrapRow(header)
	rows := make([][][]string, len(rs.Records))
	for i, rec := range rs.Records {
		rows[i] = wrapRow(cols.row(rec, nil))
	}
	widths := computeWidths(head, rows)

	bc := roundedBorder
	if err := drawHLine(w, widths, bc.topLeft, bc.horizontal, bc.topTee, bc.topRight); err != nil {
		return err
	}
	if err := drawBorderedRow(w, head, widths, bc.vertical); err != nil {
		return err
	}
	if err := drawHLine(w, widths, bc.leftTee, bc.horizontal, bc.cross, bc.rightTee); err != nil {
		return err
	}
	for _, row := range rows {
		if err := drawBorderedRow(w, row, widths, bc.vertical); err != nil {
			return err
		}
	}
	return drawHLine(w, widths, bc.bottomLeft, bc.horizontal, bc.bottomTee, bc.bottomRight)
}

// wrapRow splits every cell into display lines: first on line breaks, then
// at tableWrapWidth.
func wrapRow(cells []string) [][]string {
	wrapped := make([][]string, len(cells))
	for i, cell := range cells {
		cell = strings.ReplaceAll(lineBreaks.Replace(cell), "\t", " ")
		for _, line := range strings.Split(cell, "\n") {
			wrapped[i] = append(wrapped[i], wrapCell(line, tableWrapWidth)...)
		}
	}
	return wrapped
}

func wrapCell(s string, width int) []string {
	if runewidth.StringWidth(s) <= width {
		return []string{s}
	}
	var lines []string
	for len(s) > 0 {
		line := runewidth.Truncate(s, width, "")
		if line == "" {
			// A rune wider than the column still takes a line of its own.
			r := []rune(s)
			line = string(r[0])
		}
		lines = append(lines, line)
		s = s[len(line):]
	}
	return lines
}

func computeWidths(head [][]string, rows [][][]string) []int {
	widths := make([]int, len(head))
	measure := func(row [][]string) {
		for i, lines := range row {
			for _, line := range lines {
				widths[i] = max(widths[i], runewidth.StringWidth(line))
			}
		}
	}
	measure(head)
	for _, row := range rows {
		measure(row)
	}
	return widths
}

func maxLines(row [][]string) int {
	n := 1
	for _, lines := range row {
		n = max(n, len(lines))
	}
	return n
}

func drawHLine(w io.Writer, widths []int, left, fill, mid, right string) error {
	var sb strings.Builder
	sb.WriteString(left)
	for i, width := range widths {
		sb.WriteString(strings.Repeat(fill, width+2))
		if i < len(widths)-1 {
			sb.WriteString(mid)
		}
	}
	sb.WriteString(right)
	_, err := fmt.Fprintln(w, sb.String())
	return err
}

func drawBorderedRow(w io.Writer, row [][]string, widths []int, vert string) error {
	for line := range maxLines(row) {
		var sb strings.Builder
		sb.WriteString(vert)
		for i, width := range widths {
			cell := ""
			if line < len(row[i]) {
				cell = row[i][line]
			}
			sb.WriteString(" ")
			sb.WriteString(padCell(cell, width))
			sb.WriteString(" ")
			if i < len(widths)-1 {
				sb.WriteString(vert)
			}
		}
		sb.WriteString(vert)
		if _, err := fmt.Fprintln(w, sb.String()); err != nil {
			return err
		}
	}
	return nil
}
