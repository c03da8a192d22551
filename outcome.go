package docconv

// Document is an uploaded file: its name, raw bytes and the content type
// the client declared, which may be empty.
type Document struct {
	Filename     string
	Data         []byte
	DeclaredType string
}

// Outcome is the result of one conversion. On success Payload holds the
// serialized records and Filename the suggested download name; on failure
// ErrorKind and ErrorDetail describe what went wrong and the other fields
// are empty.
type Outcome struct {
	Success     bool      `json:"success"`
	Payload     string    `json:"payload,omitempty"`
	Filename    string    `json:"filename,omitempty"`
	ErrorKind   ErrorKind `json:"error_kind,omitempty"`
	ErrorDetail string    `json:"error_detail,omitempty"`
}

// Err returns the failure as an error carrying the sentinel of its kind, or
// nil on success.
func (o Outcome) Err() error {
	if o.Success {
		return nil
	}
	return &ConversionError{Kind: o.ErrorKind, Detail: o.ErrorDetail}
}

func succeeded(payload, filename string) Outcome {
	return Outcome{Success: true, Payload: payload, Filename: filename}
}

func failed(err error) Outcome {
	return Outcome{ErrorKind: KindOf(err), ErrorDetail: err.Error()}
}

// ConversionError is the error form of a failed Outcome.
type ConversionError struct {
	Kind   ErrorKind
	Detail string
}

func (e *ConversionError) Error() string { return e.Detail }

// Unwrap returns the sentinel matching Kind so errors.Is works on it.
func (e *ConversionError) Unwrap() error {
	switch e.Kind {
	case KindUnsupportedFormat:
		return ErrUnsupportedFormat
	case KindTooLarge:
		return ErrTooLarge
	case KindCorrupt:
		return ErrCorrupt
	case KindEncoding:
		return ErrEncoding
	case KindSerialization:
		return ErrSerialization
	default:
		return nil
	}
}
