// Package docconv converts uploaded documents into a normalized record model
// and serializes it.
//
// A [Converter] runs each [Document] through four stages: the source format
// is chosen from the filename with [Detect], an [Extractor] turns the bytes
// into an [Extraction], textual content is split into one record per line by
// [Normalize], and the resulting [RecordSet] is written in an output
// [Format]. The result is always an [Outcome]; failures carry an
// [ErrorKind] instead of a payload.
//
//	conv := docconv.New(docconv.Config{})
//	out := conv.Convert(ctx, docconv.Document{Filename: "people.csv", Data: data}, docconv.JSON)
//	if !out.Success {
//		return out.Err()
//	}
//
// # Source formats
//
//   - [Spreadsheet] (.xlsx, .xls): first sheet, first row is the header
//   - [WordDocument] (.docx, .doc): one text record per paragraph
//   - [DelimitedText] (.csv): first row is the header
//   - [PlainText] (.txt): one text record per non-blank line
//   - [PDF] (.pdf): page text from a [PageTextExtractor], one record per line
//
// Detection is by suffix only. [Sniff] inspects magic bytes, and the
// converter logs a warning when they disagree with the suffix, but routing
// never changes.
//
// # Output formats
//
// [JSONL], [JSON], [CSV], [YAML], [TSV], [Markdown], [HTML] and [Table], a
// box-drawn table for terminals. Every format keeps record order and field
// order. Use [ParseFormat] to convert a
// flag value into a [Format] and [Write] or [Marshal] to serialize a
// [RecordSet] directly.
//
// # Errors
//
// Failures wrap one of [ErrUnsupportedFormat], [ErrTooLarge], [ErrCorrupt],
// [ErrEncoding] or [ErrSerialization]; [KindOf] maps them to an
// [ErrorKind]. An unknown output format name is [ErrUnsupportedOutput].
package docconv
