package docconv

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// Converter runs documents through detection, extraction, normalization and
// serialization. It is immutable after New and safe for concurrent use.
type Converter struct {
	cfg        Config
	logger     *slog.Logger
	extractors map[SourceFormat]Extractor
	pages      PageTextExtractor
}

// Option customizes a Converter.
type Option func(*Converter)

// WithExtractor replaces the extractor used for a source format.
func WithExtractor(f SourceFormat, ex Extractor) Option {
	return func(c *Converter) {
		c.extractors[f] = ex
	}
}

// WithPageTextExtractor replaces the PDF page-text engine.
func WithPageTextExtractor(ex PageTextExtractor) Option {
	return func(c *Converter) {
		c.pages = ex
	}
}

// New creates a Converter with the given configuration. An unknown
// PDFEngine falls back to the default engine with a warning.
func New(cfg Config, opts ...Option) *Converter {
	cfg.defaults()
	c := &Converter{
		cfg:        cfg,
		logger:     cfg.Logger,
		extractors: defaultExtractors(),
	}
	pages, ok := pageTextEngine(cfg.PDFEngine)
	if !ok {
		c.logger.Warn("unknown pdf engine, using default", "engine", cfg.PDFEngine, "default", EngineLedongthuc)
		pages, _ = pageTextEngine(EngineLedongthuc)
	}
	c.pages = pages
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Config returns the effective configuration, defaults applied.
func (c *Converter) Config() Config { return c.cfg }

// Detect returns the source format for a filename. See [Detect].
func (c *Converter) Detect(filename string) SourceFormat { return Detect(filename) }

// Convert turns doc into a payload in format f. Every failure is reported
// in the Outcome; Convert never panics on bad input.
func (c *Converter) Convert(ctx context.Context, doc Document, f Format) Outcome {
	log := c.logger.With("request_id", uuid.NewString(), "filename", doc.Filename)

	f, err := ParseFormat(string(f))
	var payload string
	if err == nil {
		payload, err = c.convert(ctx, log, doc, f)
	}
	if err != nil {
		log.WarnContext(ctx, "conversion failed", "kind", KindOf(err), "error", err)
		return failed(err)
	}
	name := doc.Filename + "." + f.Ext()
	log.DebugContext(ctx, "conversion done", "output", name, "bytes", len(payload))
	return succeeded(payload, name)
}

func (c *Converter) convert(ctx context.Context, log *slog.Logger, doc Document, f Format) (string, error) {
	rs, err := c.extract(ctx, log, doc)
	if err != nil {
		return "", err
	}
	log.DebugContext(ctx, "serializing", "format", f, "records", rs.Len())
	out, err := Marshal(f, rs)
	if err != nil {
		if !errors.Is(err, ErrSerialization) {
			err = fmt.Errorf("%w: %s", ErrSerialization, err)
		}
		return "", err
	}
	return string(out), nil
}

// ConvertFile reads the file at path and converts it. The size guard runs
// on the file's metadata before it is read. The error is non-nil only when
// the file cannot be read; conversion failures are in the Outcome.
func (c *Converter) ConvertFile(ctx context.Context, path string, f Format) (Outcome, error) {
	info, err := os.Stat(path)
	if err != nil {
		return Outcome{}, fmt.Errorf("stat %s: %w", path, err)
	}
	if info.Size() > c.cfg.MaxFileSize {
		err := tooLarge(info.Size(), c.cfg.MaxFileSize)
		c.logger.WarnContext(ctx, "conversion failed", "filename", info.Name(), "kind", KindOf(err), "error", err)
		return failed(err), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Outcome{}, fmt.Errorf("read %s: %w", path, err)
	}
	return c.Convert(ctx, Document{Filename: filepath.Base(path), Data: data}, f), nil
}

// Extract runs detection, extraction and normalization without
// serialization.
func (c *Converter) Extract(ctx context.Context, doc Document) (RecordSet, error) {
	log := c.logger.With("request_id", uuid.NewString(), "filename", doc.Filename)
	rs, err := c.extract(ctx, log, doc)
	if err != nil {
		log.WarnContext(ctx, "extraction failed", "kind", KindOf(err), "error", err)
	}
	return rs, err
}

func (c *Converter) extract(ctx context.Context, log *slog.Logger, doc Document) (RecordSet, error) {
	size := int64(len(doc.Data))
	if size > c.cfg.MaxFileSize {
		return RecordSet{}, tooLarge(size, c.cfg.MaxFileSize)
	}

	format := Detect(doc.Filename)
	log = log.With("source", format, "size", size)
	log.DebugContext(ctx, "detected source format")
	if format == Unsupported {
		return RecordSet{}, fmt.Errorf("%w: %q", ErrUnsupportedFormat, doc.Filename)
	}

	c.checkContent(ctx, log, doc, format)

	ext, err := c.extractWith(format, doc.Data)
	if err != nil {
		return RecordSet{}, err
	}
	log.DebugContext(ctx, "extracted", "kind", ext.Kind)
	return ext.RecordSet(), nil
}

// checkContent logs the declared type and the sniffed signature. Neither
// affects routing.
func (c *Converter) checkContent(ctx context.Context, log *slog.Logger, doc Document, format SourceFormat) {
	if doc.DeclaredType != "" && !IsAllowedType(doc.DeclaredType) {
		log.WarnContext(ctx, "declared content type not allowed", "declared_type", doc.DeclaredType)
	}
	sig := Sniff(doc.Data)
	if !signatureAgrees(format, sig) {
		log.WarnContext(ctx, "content signature disagrees with extension", "sniffed", sig.Extension, "mime", sig.MIME)
		return
	}
	if sig.Known() {
		log.DebugContext(ctx, "content signature", "sniffed", sig.Extension, "mime", sig.MIME)
	}
}

func (c *Converter) extractWith(format SourceFormat, data []byte) (Extraction, error) {
	var (
		ext Extraction
		err error
	)
	if ex, ok := c.extractors[format]; ok {
		ext, err = guard(string(format), func() (Extraction, error) { return ex.Extract(data) })
	} else if format == PDF {
		var text string
		text, err = pdfText(c.pages, data)
		ext = TextualExtraction(text)
	} else {
		err = fmt.Errorf("%w: no extractor for %s", ErrUnsupportedFormat, format)
	}
	if err != nil {
		return Extraction{}, classify(err, ErrCorrupt)
	}
	return ext, nil
}

var kindSentinels = []error{ErrUnsupportedFormat, ErrTooLarge, ErrCorrupt, ErrEncoding, ErrSerialization}

// classify wraps err with fallback unless it already carries a sentinel.
func classify(err, fallback error) error {
	for _, s := range kindSentinels {
		if errors.Is(err, s) {
			return err
		}
	}
	return fmt.Errorf("%w: %w", fallback, err)
}

func tooLarge(size, limit int64) error {
	return fmt.Errorf("%w: %d bytes (max %d)", ErrTooLarge, size, limit)
}
