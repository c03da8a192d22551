package docconv

import (
	"fmt"
	"io"
	"strings"
)

// writeCSV always quotes values. encoding/csv only quotes when a field needs
// it, so rows are assembled here.
func writeCSV(w io.Writer, rs RecordSet) error {
	header := rs.header()
	if len(header) == 0 {
		return nil
	}
	cols, err := newColumns(CSV, header, rs.Records)
	if err != nil {
		return err
	}
	cells := make([]string, len(header))
	for i, name := range header {
		cells[i] = csvHeaderCell(name)
	}
	if _, err := io.WriteString(w, strings.Join(cells, ",")); err != nil {
		return err
	}
	row := make([]string, len(header))
	for _, rec := range rs.Records {
		for i, v := range cols.row(rec, row) {
			cells[i] = csvQuote(v)
		}
		if _, err := io.WriteString(w, "\n"+strings.Join(cells, ",")); err != nil {
			return err
		}
	}
	return nil
}

func csvQuote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

func csvHeaderCell(s string) string {
	if s == "" || strings.ContainsAny(s, ",\"\r\n") || s != strings.TrimSpace(s) {
		return csvQuote(s)
	}
	return s
}

// columns lays records out in header order.
type columns struct {
	header []string
	index  map[string]int
}

// newColumns indexes header and rejects records carrying a field it does not
// name; such a cell would otherwise be dropped or land in the wrong column.
// Missing fields are fine and render empty.
func newColumns(f Format, header []string, records []Record) (columns, error) {
	index := make(map[string]int, len(header))
	for i, name := range header {
		if _, dup := index[name]; !dup {
			index[name] = i
		}
	}
	for i, rec := range records {
		for _, field := range rec {
			if _, ok := index[field.Name]; !ok {
				return columns{}, fmt.Errorf("%w: format %q: record %d has field %q not in header %q",
					ErrSerialization, f, i, field.Name, header)
			}
		}
	}
	return columns{header: header, index: index}, nil
}

// row writes rec's values into dst in header order and returns it. A nil
// dst allocates a new row. When a record repeats a name, its first value
// wins.
func (c columns) row(rec Record, dst []string) []string {
	if dst == nil {
		dst = make([]string, len(c.header))
	} else {
		clear(dst)
	}
	for i := len(rec) - 1; i >= 0; i-- {
		dst[c.index[rec[i].Name]] = rec[i].Value
	}
	return dst
}
