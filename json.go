package docconv

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
)

const jsonIndent = "  "

func writeJSON(w io.Writer, rs RecordSet) error {
	records := rs.Records
	if records == nil {
		records = []Record{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", jsonIndent)
	if err := enc.Encode(records); err != nil {
		return fmt.Errorf("%w: %s", ErrSerialization, err)
	}
	_, err := w.Write(bytes.TrimSuffix(buf.Bytes(), []byte("\n")))
	return err
}
