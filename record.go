package docconv

import (
	"bytes"
	"encoding/json"

	"gopkg.in/yaml.v3"
)

// TextField is the field name of every record built from textual content.
const TextField = "text"

// Field is a single named cell of a record.
type Field struct {
	Name  string
	Value string
}

// Record is an ordered mapping from field name to cell value. Field order is
// the source column order and is preserved by every output format.
type Record []Field

// Get returns the value of the named field.
func (r Record) Get(name string) (string, bool) {
	for _, f := range r {
		if f.Name == name {
			return f.Value, true
		}
	}
	return "", false
}

// Names returns the field names in order.
func (r Record) Names() []string {
	names := make([]string, len(r))
	for i, f := range r {
		names[i] = f.Name
	}
	return names
}

// MarshalJSON encodes the record as an object with keys in field order.
// HTML characters are left unescaped.
func (r Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range r {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := encodeJSONString(&buf, f.Name); err != nil {
			return nil, err
		}
		buf.WriteByte(':')
		if err := encodeJSONString(&buf, f.Value); err != nil {
			return nil, err
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// MarshalYAML encodes the record as a mapping with keys in field order.
func (r Record) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, f := range r {
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: f.Name},
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: f.Value},
		)
	}
	return node, nil
}

func encodeJSONString(buf *bytes.Buffer, s string) error {
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return err
	}
	// Encode always appends a newline.
	buf.Truncate(buf.Len() - 1)
	return nil
}

// RecordSet is the ordered sequence of records fed to serialization.
//
// Fields is the column set of the source: the header row for tabular
// content, or [TextField] for textual content. It lets an empty set still
// render a CSV header.
type RecordSet struct {
	Fields  []string
	Records []Record
}

// Len returns the number of records.
func (rs RecordSet) Len() int { return len(rs.Records) }

// header returns the column names used by the tabular output formats: the
// first record's field names, or Fields when the set is empty.
func (rs RecordSet) header() []string {
	if len(rs.Records) > 0 {
		return rs.Records[0].Names()
	}
	return rs.Fields
}

// ExtractionKind tags the variant held by an [Extraction].
type ExtractionKind int

const (
	Tabular ExtractionKind = iota + 1
	Textual
)

// String returns the variant name.
func (k ExtractionKind) String() string {
	switch k {
	case Tabular:
		return "tabular"
	case Textual:
		return "textual"
	default:
		return "invalid"
	}
}

// Extraction is the output of an [Extractor]: either tabular records or raw
// text, never both. Build one with [TabularExtraction] or
// [TextualExtraction].
type Extraction struct {
	Kind    ExtractionKind
	Fields  []string
	Records []Record
	Text    string
}

// TabularExtraction returns a Tabular extraction.
func TabularExtraction(fields []string, records []Record) Extraction {
	return Extraction{Kind: Tabular, Fields: fields, Records: records}
}

// TextualExtraction returns a Textual extraction.
func TextualExtraction(text string) Extraction {
	return Extraction{Kind: Textual, Text: text}
}

// RecordSet returns the normalized record set: tabular records unchanged,
// textual content passed through [Normalize].
func (e Extraction) RecordSet() RecordSet {
	if e.Kind == Textual {
		return Normalize(e.Text)
	}
	return RecordSet{Fields: e.Fields, Records: e.Records}
}
