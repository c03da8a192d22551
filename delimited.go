package docconv

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

// extractDelimited parses comma-separated text with double-quote escaping.
// The first non-blank row is the header; see tabulate for the column policy.
func extractDelimited(data []byte) (Extraction, error) {
	text, err := decodeText(data)
	if err != nil {
		return Extraction{}, err
	}
	r := csv.NewReader(strings.NewReader(text))
	r.FieldsPerRecord = -1

	var rows [][]string
	for {
		row, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return Extraction{}, fmt.Errorf("%w: csv: %s", ErrCorrupt, err)
		}
		rows = append(rows, row)
	}
	fields, records := tabulate(rows)
	return TabularExtraction(fields, records), nil
}
