package docconv

// extractText returns the buffer as text. Line handling is left to
// Normalize.
func extractText(data []byte) (Extraction, error) {
	text, err := decodeText(data)
	if err != nil {
		return Extraction{}, err
	}
	return TextualExtraction(text), nil
}
