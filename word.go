package docconv

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

// extractWord flattens a .docx or legacy .doc body to text: one line per
// paragraph, styling, images and table layout dropped.
func extractWord(data []byte) (Extraction, error) {
	switch {
	case isZip(data):
		return guard("docx", func() (Extraction, error) {
			text, err := docxText(data)
			if err != nil {
				return Extraction{}, err
			}
			return TextualExtraction(text), nil
		})
	case isOLE2(data):
		return guard("doc", func() (Extraction, error) {
			text, err := docText(data)
			if err != nil {
				return Extraction{}, err
			}
			return TextualExtraction(text), nil
		})
	default:
		return Extraction{}, fmt.Errorf("%w: word: neither an OOXML nor an OLE2 document", ErrCorrupt)
	}
}

// docxText reads word/document.xml from the archive. Only w:t runs carry
// text; w:tab inside a run becomes a tab and w:br/w:cr a line break.
func docxText(data []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("%w: docx: %s", ErrCorrupt, err)
	}
	var docFile *zip.File
	for _, f := range zr.File {
		if f.Name == "word/document.xml" {
			docFile = f
			break
		}
	}
	if docFile == nil {
		return "", fmt.Errorf("%w: docx: word/document.xml not found in archive", ErrCorrupt)
	}
	rc, err := docFile.Open()
	if err != nil {
		return "", fmt.Errorf("%w: docx: open document.xml: %s", ErrCorrupt, err)
	}
	defer rc.Close()

	var (
		out    strings.Builder
		para   strings.Builder
		inRun  bool
		inText bool
	)
	decoder := xml.NewDecoder(rc)
	for {
		tok, err := decoder.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", fmt.Errorf("%w: docx: document.xml: %s", ErrCorrupt, err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "r":
				inRun = true
			case "t":
				inText = inRun
			case "tab":
				if inRun {
					para.WriteByte('\t')
				}
			case "br", "cr":
				if inRun {
					para.WriteByte('\n')
				}
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "r":
				inRun = false
			case "t":
				inText = false
			case "p":
				out.WriteString(para.String())
				out.WriteByte('\n')
				para.Reset()
			}
		case xml.CharData:
			if inText {
				para.Write(t)
			}
		}
	}
	out.WriteString(para.String())
	return out.String(), nil
}
