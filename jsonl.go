package docconv

import (
	"fmt"
	"io"
)

func writeJSONL(w io.Writer, rs RecordSet) error {
	for i, rec := range rs.Records {
		data, err := rec.MarshalJSON()
		if err != nil {
			return fmt.Errorf("%w: record %d: %s", ErrSerialization, i, err)
		}
		if i > 0 {
			if _, err := io.WriteString(w, "\n"); err != nil {
				return err
			}
		}
		if _, err := w.Write(data); err != nil {
			return err
		}
	}
	return nil
}
