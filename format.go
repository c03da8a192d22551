package docconv

import (
	"bytes"
	"fmt"
	"io"
)

// Format represents an output format.
type Format string

const (
	JSONL    Format = "jsonl"
	JSON     Format = "json"
	CSV      Format = "csv"
	YAML     Format = "yaml"
	TSV      Format = "tsv"
	Markdown Format = "markdown"
	HTML     Format = "html"
	Table    Format = "table"
)

var formats = []Format{JSONL, JSON, CSV, YAML, TSV, Markdown, HTML, Table}

var contentTypes = map[Format]string{
	JSONL:    "application/jsonl",
	JSON:     "application/json",
	CSV:      "text/csv",
	YAML:     "application/yaml",
	TSV:      "text/tab-separated-values",
	Markdown: "text/markdown",
	HTML:     "text/html",
	Table:    "text/plain; charset=utf-8",
}

// String returns the format name.
func (f Format) String() string { return string(f) }

// Ext returns the file extension, without the dot, suggested for payloads
// in this format.
func (f Format) Ext() string {
	switch f {
	case Markdown:
		return "md"
	case Table:
		return "txt"
	}
	return string(f)
}

// ContentType returns the MIME type of payloads in this format.
func (f Format) ContentType() string {
	if ct, ok := contentTypes[f]; ok {
		return ct
	}
	return "application/octet-stream"
}

// Formats returns all supported output formats.
func Formats() []Format {
	out := make([]Format, len(formats))
	copy(out, formats)
	return out
}

// ParseFormat parses a format name. "md" is accepted for Markdown.
func ParseFormat(s string) (Format, error) {
	if s == "md" {
		return Markdown, nil
	}
	for _, f := range formats {
		if string(f) == s {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedOutput, s)
}

// Write serializes rs in format f and writes it to w. Record order and field
// name casing are preserved by every format.
func Write(w io.Writer, f Format, rs RecordSet) error {
	switch f {
	case JSONL:
		return writeJSONL(w, rs)
	case JSON:
		return writeJSON(w, rs)
	case CSV:
		return writeCSV(w, rs)
	case YAML:
		return writeYAML(w, rs)
	case TSV:
		return writeTSV(w, rs)
	case Markdown:
		return writeMarkdown(w, rs)
	case HTML:
		return writeHTML(w, rs)
	case Table:
		return writeTable(w, rs)
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedOutput, f)
	}
}

// Marshal serializes rs in format f and returns the bytes.
func Marshal(f Format, rs RecordSet) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(&buf, f, rs); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
