package docconv

import "errors"

// Sentinel errors for programmatic error handling. Every conversion failure
// wraps exactly one of the first five; use [KindOf] to map it to an
// [ErrorKind].
var (
	ErrUnsupportedFormat = errors.New("unsupported format")
	ErrTooLarge          = errors.New("document too large")
	ErrCorrupt           = errors.New("corrupt document")
	ErrEncoding          = errors.New("invalid text encoding")
	ErrSerialization     = errors.New("serialization failed")

	// ErrUnsupportedOutput is returned by [ParseFormat] and [Write] for an
	// unknown output format name.
	ErrUnsupportedOutput = errors.New("unsupported output format")
)

// ErrorKind classifies a failed conversion.
type ErrorKind string

const (
	KindUnsupportedFormat ErrorKind = "unsupported_format"
	KindTooLarge          ErrorKind = "too_large"
	KindCorrupt           ErrorKind = "corrupt"
	KindEncoding          ErrorKind = "encoding"
	KindSerialization     ErrorKind = "serialization"
)

// String returns the kind name.
func (k ErrorKind) String() string { return string(k) }

// KindOf maps err to its ErrorKind. Errors outside the taxonomy (including
// an unknown output format) report KindUnsupportedFormat when they concern
// the output format and KindSerialization otherwise, so a failed outcome
// always carries a kind.
func KindOf(err error) ErrorKind {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrTooLarge):
		return KindTooLarge
	case errors.Is(err, ErrUnsupportedFormat), errors.Is(err, ErrUnsupportedOutput):
		return KindUnsupportedFormat
	case errors.Is(err, ErrCorrupt):
		return KindCorrupt
	case errors.Is(err, ErrEncoding):
		return KindEncoding
	default:
		return KindSerialization
	}
}
