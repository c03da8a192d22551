package docconv

import (
	"fmt"
	"html"
	"io"
)

// writeHTML renders a bare <table>. An empty set still gets its header row.
func writeHTML(w io.Writer, rs RecordSet) error {
	header := rs.header()
	if len(header) == 0 {
		return nil
	}
	cols, err := newColumns(HTML, header, rs.Records)
	if err != nil {
		return err
	}

	if _, err := fmt.Fprintln(w, "<table>"); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, "  <thead>"); err != nil {
		return err
	}
	if err := writeHTMLRow(w, "th", header); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, "  </thead>"); err != nil {
		return err
	}

	if _, err := fmt.Fprintln(w, "  <tbody>"); err != nil {
		return err
	}
	row := make([]string, len(header))
	for _, rec := range rs.Records {
		if err := writeHTMLRow(w, "td", cols.row(rec, row)); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintln(w, "  </tbody>"); err != nil {
		return err
	}

	_, err = fmt.Fprintln(w, "</table>")
	return err
}

func writeHTMLRow(w io.Writer, tag string, cells []string) error {
	if _, err := fmt.Fprintln(w, "    <tr>"); err != nil {
		return err
	}
	for _, cell := range cells {
		if _, err := fmt.Fprintf(w, "      <%s>%s</%s>\n", tag, html.EscapeString(cell), tag); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "    </tr>")
	return err
}
