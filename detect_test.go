package docconv_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bjaus/docconv"
)

func TestDetect(t *testing.T) {
	t.Parallel()
	tests := map[string]struct {
		filename string
		want     docconv.SourceFormat
	}{
		"xlsx":            {filename: "report.xlsx", want: docconv.Spreadsheet},
		"xls":             {filename: "report.xls", want: docconv.Spreadsheet},
		"docx":            {filename: "letter.docx", want: docconv.WordDocument},
		"doc":             {filename: "letter.doc", want: docconv.WordDocument},
		"csv":             {filename: "people.csv", want: docconv.DelimitedText},
		"txt":             {filename: "notes.txt", want: docconv.PlainText},
		"pdf":             {filename: "paper.pdf", want: docconv.PDF},
		"uppercase":       {filename: "REPORT.XLSX", want: docconv.Spreadsheet},
		"mixed case":      {filename: "Notes.TxT", want: docconv.PlainText},
		"double suffix":   {filename: "archive.csv.pdf", want: docconv.PDF},
		"path":            {filename: "dir/sub/people.csv", want: docconv.DelimitedText},
		"bare suffix":     {filename: ".txt", want: docconv.PlainText},
		"unknown suffix":  {filename: "image.png", want: docconv.Unsupported},
		"no suffix":       {filename: "README", want: docconv.Unsupported},
		"empty":           {filename: "", want: docconv.Unsupported},
		"suffix mid-name": {filename: "data.csv.bak", want: docconv.Unsupported},
		"near miss":       {filename: "photo.pdfx", want: docconv.Unsupported},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, docconv.Detect(tt.filename))
		})
	}
}

func TestDetectIgnoresContent(t *testing.T) {
	t.Parallel()
	conv := docconv.New(docconv.Config{})
	assert.Equal(t, docconv.PlainText, conv.Detect("pdf-looking.txt"))
	// Sniffing a PDF header never moves a .txt file off the text path.
	sig := docconv.Sniff([]byte("%PDF-1.7\n"))
	assert.Equal(t, "pdf", sig.Extension)
	assert.Equal(t, docconv.PlainText, docconv.Detect("pdf-looking.txt"))
}

func TestSupportedExtensions(t *testing.T) {
	t.Parallel()
	assert.Equal(t,
		[]string{".xlsx", ".xls", ".docx", ".doc", ".csv", ".txt", ".pdf"},
		docconv.SupportedExtensions())
}

func TestIsAllowedType(t *testing.T) {
	t.Parallel()
	tests := map[string]struct {
		mime string
		want bool
	}{
		"xlsx":         {mime: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", want: true},
		"xls":          {mime: "application/vnd.ms-excel", want: true},
		"doc":          {mime: "application/msword", want: true},
		"csv":          {mime: "text/csv", want: true},
		"with charset": {mime: "text/plain; charset=utf-8", want: true},
		"upper case":   {mime: "Application/PDF", want: true},
		"image":        {mime: "image/png", want: false},
		"empty":        {mime: "", want: false},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, docconv.IsAllowedType(tt.mime))
		})
	}
}

func TestAllowedTypesIsACopy(t *testing.T) {
	t.Parallel()
	types := docconv.AllowedTypes()
	assert.Len(t, types, 7)
	types[0] = "mutated"
	assert.NotEqual(t, "mutated", docconv.AllowedTypes()[0])
}

func TestSniff(t *testing.T) {
	t.Parallel()
	tests := map[string]struct {
		data      []byte
		wantKnown bool
		wantExt   string
	}{
		"pdf":   {data: []byte("%PDF-1.4\n%âãÏÓ\n"), wantKnown: true, wantExt: "pdf"},
		"ole2":  {data: []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}, wantKnown: true},
		"zip":   {data: []byte{0x50, 0x4B, 0x03, 0x04, 0x14, 0x00, 0x00, 0x00}, wantKnown: true},
		"text":  {data: []byte("name,age\nAna,30\n"), wantKnown: false},
		"empty": {data: nil, wantKnown: false},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			sig := docconv.Sniff(tt.data)
			assert.Equal(t, tt.wantKnown, sig.Known())
			if tt.wantExt != "" {
				assert.Equal(t, tt.wantExt, sig.Extension)
			}
		})
	}
}
