package docconv

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

const yamlIndent = 2

func writeYAML(w io.Writer, rs RecordSet) error {
	records := rs.Records
	if records == nil {
		records = []Record{}
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(yamlIndent)
	if err := enc.Encode(records); err != nil {
		return fmt.Errorf("%w: %s", ErrSerialization, err)
	}
	return enc.Close()
}
