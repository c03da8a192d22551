package docconv

import (
	"fmt"
	"io"
	"strings"
)

var tsvFlatten = strings.NewReplacer("\t", " ", "\r\n", " ", "\n", " ", "\r", " ")

func writeTSV(w io.Writer, rs RecordSet) error {
	header := rs.header()
	if len(header) == 0 {
		return nil
	}
	cols, err := newColumns(TSV, header, rs.Records)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, strings.Join(tsvRow(header), "\t")); err != nil {
		return err
	}
	row := make([]string, len(header))
	for _, rec := range rs.Records {
		if _, err := fmt.Fprintln(w, strings.Join(tsvRow(cols.row(rec, row)), "\t")); err != nil {
			return err
		}
	}
	return nil
}

func tsvRow(cells []string) []string {
	out := make([]string, len(cells))
	for i, c := range cells {
		out[i] = tsvFlatten.Replace(c)
	}
	return out
}

