package docconv

import (
	"bytes"
	"slices"
	"strings"

	"github.com/h2non/filetype"
)

// SourceFormat identifies how a document is extracted.
type SourceFormat string

const (
	Spreadsheet   SourceFormat = "spreadsheet"
	WordDocument  SourceFormat = "word"
	DelimitedText SourceFormat = "delimited"
	PlainText     SourceFormat = "text"
	PDF           SourceFormat = "pdf"
	Unsupported   SourceFormat = "unsupported"
)

// String returns the format name.
func (f SourceFormat) String() string { return string(f) }

// Suffixes in match priority order.
var suffixes = []struct {
	ext    string
	format SourceFormat
}{
	{".xlsx", Spreadsheet},
	{".xls", Spreadsheet},
	{".docx", WordDocument},
	{".doc", WordDocument},
	{".csv", DelimitedText},
	{".txt", PlainText},
	{".pdf", PDF},
}

// Detect maps a filename to its source format by case-insensitive suffix.
// Content is never consulted. Unknown suffixes and the empty name give
// Unsupported.
func Detect(filename string) SourceFormat {
	lower := strings.ToLower(filename)
	for _, s := range suffixes {
		if strings.HasSuffix(lower, s.ext) {
			return s.format
		}
	}
	return Unsupported
}

// SupportedExtensions returns the accepted filename suffixes.
func SupportedExtensions() []string {
	out := make([]string, len(suffixes))
	for i, s := range suffixes {
		out[i] = s.ext
	}
	return out
}

var allowedTypes = []string{
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	"application/vnd.ms-excel",
	"application/msword",
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	"text/csv",
	"text/plain",
	"application/pdf",
}

// AllowedTypes returns the declared content types accepted without a
// warning.
func AllowedTypes() []string {
	return slices.Clone(allowedTypes)
}

// IsAllowedType reports whether a declared content type is on the allow
// list. Parameters such as "; charset=utf-8" are ignored. The result is
// advisory: routing always follows [Detect].
func IsAllowedType(mime string) bool {
	mime, _, _ = strings.Cut(mime, ";")
	return slices.Contains(allowedTypes, strings.ToLower(strings.TrimSpace(mime)))
}

// Signature is the content type guessed from a buffer's magic bytes.
type Signature struct {
	Extension string
	MIME      string
}

// Known reports whether the magic bytes matched anything.
func (s Signature) Known() bool { return s.Extension != "" }

// sniffLimit matches the header size filetype inspects.
const sniffLimit = 8192

// Sniff guesses the content type from magic bytes. It is diagnostic only
// and never changes the result of [Detect].
func Sniff(data []byte) Signature {
	head := data[:min(len(data), sniffLimit)]
	kind, err := filetype.Match(head)
	if err == nil && kind != filetype.Unknown {
		return Signature{Extension: kind.Extension, MIME: kind.MIME.Value}
	}
	switch {
	case isOLE2(head):
		return Signature{Extension: "ole2", MIME: "application/x-ole-storage"}
	case isZip(head):
		return Signature{Extension: "zip", MIME: "application/zip"}
	}
	return Signature{}
}

// expectedSignatures lists the sniffed extensions consistent with each
// source format. Text formats have no magic bytes. filetype reports a bare
// OLE2 container as msi.
var expectedSignatures = map[SourceFormat][]string{
	Spreadsheet:  {"xlsx", "xls", "zip", "ole2", "msi"},
	WordDocument: {"docx", "doc", "zip", "ole2", "msi"},
	PDF:          {"pdf"},
}

// signatureAgrees reports whether a sniffed signature is plausible for f.
// An unknown signature always agrees.
func signatureAgrees(f SourceFormat, sig Signature) bool {
	if !sig.Known() {
		return true
	}
	expected, ok := expectedSignatures[f]
	if !ok {
		return false
	}
	return slices.Contains(expected, sig.Extension)
}

var (
	zipMagic  = []byte{0x50, 0x4B, 0x03, 0x04}
	ole2Magic = []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}
)

func isZip(data []byte) bool  { return bytes.HasPrefix(data, zipMagic) }
func isOLE2(data []byte) bool { return bytes.HasPrefix(data, ole2Magic) }
