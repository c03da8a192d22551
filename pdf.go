package docconv

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// PageTextExtractor is the PDF text-layer capability: it returns the text
// of every page, in page order. Pages without text yield "".
type PageTextExtractor interface {
	PageTexts(data []byte) ([]string, error)
}

// PageTextFunc adapts a function to the PageTextExtractor interface.
type PageTextFunc func(data []byte) ([]string, error)

// PageTexts calls f(data).
func (f PageTextFunc) PageTexts(data []byte) ([]string, error) { return f(data) }

// PDF engines selectable through Config.PDFEngine.
const (
	EngineLedongthuc = "ledongthuc"
	EnginePDFCPU     = "pdfcpu"
)

// Engines returns the names of the built-in PDF engines.
func Engines() []string { return []string{EngineLedongthuc, EnginePDFCPU} }

func pageTextEngine(name string) (PageTextExtractor, bool) {
	switch name {
	case EngineLedongthuc:
		return PageTextFunc(ledongthucPages), true
	case EnginePDFCPU:
		return PageTextFunc(pdfcpuPages), true
	default:
		return nil, false
	}
}

// pdfText runs the page extractor and joins pages in order, one newline
// after each page.
func pdfText(ex PageTextExtractor, data []byte) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			text, err = "", fmt.Errorf("%w: pdf engine panic: %v", ErrCorrupt, r)
		}
	}()
	pages, err := ex.PageTexts(data)
	if err != nil {
		return "", err
	}
	var sb strings.Builder
	for _, page := range pages {
		sb.WriteString(page)
		sb.WriteByte('\n')
	}
	return sb.String(), nil
}

func ledongthucPages(data []byte) ([]string, error) {
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: pdf: %s", ErrCorrupt, err)
	}
	n := r.NumPage()
	pages := make([]string, 0, n)
	for i := 1; i <= n; i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			pages = append(pages, "")
			continue
		}
		text, err := p.GetPlainText(nil)
		if err != nil {
			return nil, fmt.Errorf("%w: pdf: page %d: %s", ErrCorrupt, i, err)
		}
		pages = append(pages, text)
	}
	return pages, nil
}

func pdfcpuPages(data []byte) ([]string, error) {
	conf := model.NewDefaultConfiguration()
	ctx, err := api.ReadValidateAndOptimize(bytes.NewReader(data), conf)
	if err != nil {
		return nil, fmt.Errorf("%w: pdfcpu read: %s", ErrCorrupt, err)
	}
	pages := make([]string, 0, ctx.PageCount)
	for pageNr := 1; pageNr <= ctx.PageCount; pageNr++ {
		r, err := pdfcpu.ExtractPageContent(ctx, pageNr)
		if err != nil {
			return nil, fmt.Errorf("%w: pdfcpu: page %d: %s", ErrCorrupt, pageNr, err)
		}
		if r == nil {
			pages = append(pages, "")
			continue
		}
		content, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("%w: pdfcpu: page %d: %s", ErrCorrupt, pageNr, err)
		}
		pages = append(pages, contentStreamText(content))
	}
	return pages, nil
}
