package docconv

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"
)

// Extractor turns the raw bytes of one source format into tabular records
// or text. Implementations must only accept their own format.
type Extractor interface {
	Extract(data []byte) (Extraction, error)
}

// ExtractorFunc adapts a function to the Extractor interface.
type ExtractorFunc func(data []byte) (Extraction, error)

// Extract calls f(data).
func (f ExtractorFunc) Extract(data []byte) (Extraction, error) { return f(data) }

// defaultExtractors returns one extractor per extractable source format. PDF
// is absent: it goes through a PageTextExtractor.
func defaultExtractors() map[SourceFormat]Extractor {
	return map[SourceFormat]Extractor{
		Spreadsheet:   ExtractorFunc(extractSpreadsheet),
		WordDocument:  ExtractorFunc(extractWord),
		DelimitedText: ExtractorFunc(extractDelimited),
		PlainText:     ExtractorFunc(extractText),
	}
}

// guard runs fn and converts a panic from a third-party parser into
// ErrCorrupt.
func guard(what string, fn func() (Extraction, error)) (ext Extraction, err error) {
	defer func() {
		if r := recover(); r != nil {
			ext, err = Extraction{}, fmt.Errorf("%w: %s parser panic: %v", ErrCorrupt, what, r)
		}
	}()
	return fn()
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// decodeText returns data as UTF-8 text. A UTF-8 BOM is dropped and UTF-16
// input with a BOM is transcoded; anything else must already be valid
// UTF-8.
func decodeText(data []byte) (string, error) {
	if bytes.HasPrefix(data, utf8BOM) {
		data = data[len(utf8BOM):]
	} else if hasUTF16BOM(data) {
		dec := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewDecoder()
		out, err := dec.Bytes(data)
		if err != nil {
			return "", fmt.Errorf("%w: utf-16: %s", ErrEncoding, err)
		}
		data = out
	}
	if !utf8.Valid(data) {
		return "", fmt.Errorf("%w: not valid UTF-8 at byte %d", ErrEncoding, firstInvalidUTF8(data))
	}
	return string(data), nil
}

func hasUTF16BOM(data []byte) bool {
	return bytes.HasPrefix(data, []byte{0xFF, 0xFE}) || bytes.HasPrefix(data, []byte{0xFE, 0xFF})
}

func firstInvalidUTF8(data []byte) int {
	for i := 0; i < len(data); {
		r, size := utf8.DecodeRune(data[i:])
		if r == utf8.RuneError && size == 1 {
			return i
		}
		i += size
	}
	return len(data)
}

// tabulate turns raw rows into records keyed by the first row.
//
// Header cells are trimmed. Blank header cells become column_N (1-based
// position) and repeated names get a _2, _3, ... suffix. Columns past the
// header that hold data get synthesized names too, and short rows are
// padded, so every record has the same field set. Rows with only blank
// cells are skipped, as are trailing columns that are blank everywhere.
func tabulate(rows [][]string) ([]string, []Record) {
	var nonBlank [][]string
	for _, row := range rows {
		if !blankRow(row) {
			nonBlank = append(nonBlank, row)
		}
	}
	if len(nonBlank) == 0 {
		return nil, nil
	}

	width := 0
	for _, row := range nonBlank {
		for i := len(row) - 1; i >= width; i-- {
			if strings.TrimSpace(row[i]) != "" {
				width = i + 1
				break
			}
		}
	}

	fields := headerNames(nonBlank[0], width)
	records := make([]Record, 0, len(nonBlank)-1)
	for _, row := range nonBlank[1:] {
		rec := make(Record, width)
		for i, name := range fields {
			rec[i].Name = name
			if i < len(row) {
				rec[i].Value = row[i]
			}
		}
		records = append(records, rec)
	}
	return fields, records
}

func headerNames(row []string, width int) []string {
	names := make([]string, width)
	taken := make(map[string]bool, width)
	for i := range names {
		name := ""
		if i < len(row) {
			name = strings.TrimSpace(row[i])
		}
		if name == "" {
			name = "column_" + strconv.Itoa(i+1)
		}
		base := name
		for n := 2; taken[name]; n++ {
			name = base + "_" + strconv.Itoa(n)
		}
		taken[name] = true
		names[i] = name
	}
	return names
}

func blankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
