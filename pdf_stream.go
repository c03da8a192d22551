package docconv

import (
	"bytes"
	"strconv"
	"strings"
	"unicode"
)

// tjWordGap is the TJ displacement, in thousandths of an em, at or below
// which the gap between two strings reads as a space.
const tjWordGap = -200

// contentStreamText pulls literal strings out of a page content stream's
// text-showing operators. Line-moving operators start a new line. Hex
// strings are skipped: they need the font's encoding to decode.
func contentStreamText(data []byte) string {
	var sb strings.Builder
	newline := func() {
		if s := sb.String(); s != "" && s[len(s)-1] != '\n' {
			sb.WriteByte('\n')
		}
	}
	show := func(v any) {
		if s, ok := v.(string); ok {
			sb.WriteString(s)
		}
	}

	lex := &contentLexer{data: data}
	var operands []any
	var arrays [][]any
	dictDepth := 0
	push := func(v any) {
		if n := len(arrays); n > 0 {
			arrays[n-1] = append(arrays[n-1], v)
			return
		}
		operands = append(operands, v)
	}

	for {
		tok, ok := lex.next()
		if !ok {
			break
		}
		switch t := tok.(type) {
		case pdfDelim:
			switch t {
			case dictOpen:
				dictDepth++
			case dictClose:
				if dictDepth > 0 {
					dictDepth--
					if dictDepth == 0 {
						push(nil)
					}
				}
			case '[':
				if dictDepth == 0 {
					arrays = append(arrays, []any{})
				}
			case ']':
				if n := len(arrays); dictDepth == 0 && n > 0 {
					arr := arrays[n-1]
					arrays = arrays[:n-1]
					push(arr)
				}
			}
			continue
		case pdfOp:
			if dictDepth > 0 {
				continue
			}
			last := lastOperand(operands)
			switch t {
			case "Tj":
				show(last)
			case "TJ":
				arr, _ := last.([]any)
				for _, e := range arr {
					switch v := e.(type) {
					case string:
						sb.WriteString(v)
					case float64:
						if v <= tjWordGap {
							sb.WriteByte(' ')
						}
					}
				}
			case "'", `"`:
				newline()
				show(last)
			case "Td", "TD":
				// "tx ty Td": a vertical move starts a new line.
				if ty, ok := last.(float64); ok && ty != 0 {
					newline()
				} else if sb.Len() > 0 {
					sb.WriteByte(' ')
				}
			case "T*", "ET":
				newline()
			case "ID":
				lex.skipInlineImage()
			}
			operands = operands[:0]
			arrays = nil
			continue
		}
		if dictDepth == 0 {
			push(tok)
		}
	}
	return cleanStreamText(sb.String())
}

func lastOperand(operands []any) any {
	if len(operands) == 0 {
		return nil
	}
	return operands[len(operands)-1]
}

// Content stream tokens. Operands are string (decoded literal), float64,
// []any (array), pdfName or nil for everything else.
type (
	pdfOp    string
	pdfName  string
	pdfDelim byte
)

const (
	dictOpen  pdfDelim = '<'
	dictClose pdfDelim = '>'
)

// contentLexer splits a content stream into PDF tokens.
type contentLexer struct {
	data []byte
	pos  int
}

func isPDFSpace(c byte) bool {
	switch c {
	case 0, '\t', '\n', '\f', '\r', ' ':
		return true
	}
	return false
}

func isPDFDelimiter(c byte) bool {
	return strings.IndexByte("()<>[]{}/%", c) >= 0
}

func (l *contentLexer) next() (any, bool) {
	d := l.data
	for l.pos < len(d) {
		switch c := d[l.pos]; {
		case isPDFSpace(c):
			l.pos++
		case c == '%':
			for l.pos < len(d) && d[l.pos] != '\n' && d[l.pos] != '\r' {
				l.pos++
			}
		default:
			return l.token(), true
		}
	}
	return nil, false
}

func (l *contentLexer) token() any {
	d := l.data
	c := d[l.pos]
	switch c {
	case '(':
		return l.literal()
	case '<':
		if l.pos+1 < len(d) && d[l.pos+1] == '<' {
			l.pos += 2
			return dictOpen
		}
		end := bytes.IndexByte(d[l.pos:], '>')
		if end < 0 {
			l.pos = len(d)
		} else {
			l.pos += end + 1
		}
		return nil
	case '>':
		l.pos++
		if l.pos < len(d) && d[l.pos] == '>' {
			l.pos++
		}
		return dictClose
	case '[', ']', '{', '}', ')':
		l.pos++
		return pdfDelim(c)
	case '/':
		start := l.pos + 1
		l.pos = l.regularEnd(start)
		return pdfName(d[start:l.pos])
	}

	start := l.pos
	l.pos = l.regularEnd(start)
	word := string(d[start:l.pos])
	switch word {
	case "true", "false", "null":
		return nil
	}
	if strings.IndexByte("+-.0123456789", word[0]) >= 0 {
		if f, err := strconv.ParseFloat(word, 64); err == nil {
			return f
		}
	}
	return pdfOp(word)
}

func (l *contentLexer) regularEnd(i int) int {
	for i < len(l.data) && !isPDFSpace(l.data[i]) && !isPDFDelimiter(l.data[i]) {
		i++
	}
	return i
}

// literal reads a (...) string, honouring nested parentheses and backslash
// escapes. An unterminated literal consumes the rest of the stream.
func (l *contentLexer) literal() any {
	d := l.data
	depth := 1
	start := l.pos + 1
	j := start
	for ; j < len(d) && depth > 0; j++ {
		switch d[j] {
		case '\\':
			j++
		case '(':
			depth++
		case ')':
			depth--
		}
	}
	if depth != 0 {
		l.pos = len(d)
		return nil
	}
	l.pos = j
	return decodePDFString(d[start : j-1])
}

// skipInlineImage moves past the binary data of a BI ... ID ... EI image.
func (l *contentLexer) skipInlineImage() {
	d := l.data
	for i := l.pos + 1; i+1 < len(d); i++ {
		if d[i] == 'E' && d[i+1] == 'I' && isPDFSpace(d[i-1]) && (i+2 == len(d) || isPDFSpace(d[i+2])) {
			l.pos = i + 2
			return
		}
	}
	l.pos = len(d)
}

// decodePDFString handles PDF literal escape sequences.
func decodePDFString(raw []byte) string {
	var sb strings.Builder
	for i := 0; i < len(raw); i++ {
		if raw[i] != '\\' || i+1 >= len(raw) {
			sb.WriteByte(raw[i])
			continue
		}
		i++
		switch raw[i] {
		case 'n':
			sb.WriteByte('\n')
		case 'r':
			sb.WriteByte('\r')
		case 't':
			sb.WriteByte('\t')
		case 'b', 'f':
		case '\\', '(', ')':
			sb.WriteByte(raw[i])
		default:
			// Octal escape, up to three digits.
			if raw[i] < '0' || raw[i] > '7' {
				sb.WriteByte(raw[i])
				continue
			}
			val := int(raw[i] - '0')
			for k := 0; k < 2 && i+1 < len(raw) && raw[i+1] >= '0' && raw[i+1] <= '7'; k++ {
				i++
				val = val*8 + int(raw[i]-'0')
			}
			sb.WriteByte(byte(val))
		}
	}
	return sb.String()
}

// cleanStreamText keeps printable runes, collapses runs of spaces within
// each line and trims the result.
func cleanStreamText(text string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		line = strings.Map(func(r rune) rune {
			switch {
			case unicode.IsSpace(r):
				return ' '
			case unicode.IsPrint(r):
				return r
			}
			return -1
		}, line)
		lines[i] = strings.Join(strings.Fields(line), " ")
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
