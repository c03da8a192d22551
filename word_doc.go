package docconv

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/richardlehane/mscfb"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

// Word 97-2003 File Information Block layout.
const (
	fibIdent         = 0xA5EC
	fibFlagEncrypted = 0x0100
	fibFlagTable1    = 0x0200
	fibCsw           = 0x20
	fibMinSize       = 0x1AA
	fibClxIndex      = 33 // fcClx/lcbClx pair in FibRgFcLcb97
	pieceCompressed  = 0x40000000
)

// docText extracts the main document text from a .doc compound file.
func docText(data []byte) (string, error) {
	streams, err := oleStreams(data, "WordDocument", "0Table", "1Table")
	if err != nil {
		return "", err
	}
	return wordText(streams["WordDocument"], streams["0Table"], streams["1Table"])
}

// oleStreams returns the named streams of an OLE2 compound file. Missing
// streams are absent from the map.
func oleStreams(data []byte, names ...string) (map[string][]byte, error) {
	r, err := mscfb.New(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: ole2: %s", ErrCorrupt, err)
	}
	want := make(map[string]bool, len(names))
	for _, n := range names {
		want[n] = true
	}
	out := make(map[string][]byte, len(names))
	for entry, err := r.Next(); err == nil; entry, err = r.Next() {
		if !want[entry.Name] || entry.Size <= 0 {
			continue
		}
		buf := make([]byte, entry.Size)
		if _, err := io.ReadFull(entry, buf); err != nil {
			return nil, fmt.Errorf("%w: ole2: stream %s: %s", ErrCorrupt, entry.Name, err)
		}
		out[entry.Name] = buf
	}
	return out, nil
}

// wordText decodes the piece table referenced by the FIB in the
// WordDocument stream and returns the first ccpText characters, which are
// the main document body (headers, footnotes and comments follow them).
func wordText(wd, table0, table1 []byte) (string, error) {
	if len(wd) < fibMinSize {
		return "", fmt.Errorf("%w: doc: WordDocument stream missing or truncated", ErrCorrupt)
	}
	le := binary.LittleEndian
	if le.Uint16(wd) != fibIdent {
		return "", fmt.Errorf("%w: doc: not a Word 97-2003 document", ErrCorrupt)
	}
	flags := le.Uint16(wd[0x0A:])
	if flags&fibFlagEncrypted != 0 {
		return "", fmt.Errorf("%w: doc: document is encrypted", ErrCorrupt)
	}
	table := table0
	if flags&fibFlagTable1 != 0 {
		table = table1
	}

	csw := int(le.Uint16(wd[fibCsw:]))
	cslwAt := fibCsw + 2 + 2*csw
	if cslwAt+2 > len(wd) {
		return "", fmt.Errorf("%w: doc: FIB truncated", ErrCorrupt)
	}
	lwAt := cslwAt + 2
	cslw := int(le.Uint16(wd[cslwAt:]))
	fcLcbAt := lwAt + 4*cslw + 2
	clxAt := fcLcbAt + 8*fibClxIndex
	if lwAt+16 > len(wd) || clxAt+8 > len(wd) {
		return "", fmt.Errorf("%w: doc: FIB truncated", ErrCorrupt)
	}
	ccpText := int(le.Uint32(wd[lwAt+12:]))
	fcClx := int(le.Uint32(wd[clxAt:]))
	lcbClx := int(le.Uint32(wd[clxAt+4:]))
	if lcbClx == 0 || fcClx < 0 || fcClx+lcbClx > len(table) {
		return "", fmt.Errorf("%w: doc: piece table outside table stream", ErrCorrupt)
	}

	pieces, err := parseClx(table[fcClx : fcClx+lcbClx])
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	remaining := ccpText
	for _, p := range pieces {
		if remaining <= 0 {
			break
		}
		n := min(p.chars, remaining)
		s, err := p.decode(wd, n)
		if err != nil {
			return "", err
		}
		sb.WriteString(s)
		remaining -= n
	}
	return cleanWordText(sb.String()), nil
}

type piece struct {
	chars      int
	fc         int
	compressed bool
}

func (p piece) decode(wd []byte, n int) (string, error) {
	if p.compressed {
		start := p.fc / 2
		if start+n > len(wd) {
			return "", fmt.Errorf("%w: doc: text piece outside WordDocument stream", ErrCorrupt)
		}
		out, err := charmap.Windows1252.NewDecoder().Bytes(wd[start : start+n])
		if err != nil {
			return "", fmt.Errorf("%w: doc: %s", ErrEncoding, err)
		}
		return string(out), nil
	}
	if p.fc+2*n > len(wd) {
		return "", fmt.Errorf("%w: doc: text piece outside WordDocument stream", ErrCorrupt)
	}
	dec := unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewDecoder()
	out, err := dec.Bytes(wd[p.fc : p.fc+2*n])
	if err != nil {
		return "", fmt.Errorf("%w: doc: %s", ErrEncoding, err)
	}
	return string(out), nil
}

// parseClx skips the Prc entries of a Clx and decodes its PlcPcd.
func parseClx(clx []byte) ([]piece, error) {
	le := binary.LittleEndian
	for i := 0; i < len(clx); {
		switch clx[i] {
		case 0x01:
			if i+3 > len(clx) {
				return nil, fmt.Errorf("%w: doc: truncated Prc", ErrCorrupt)
			}
			i += 3 + int(le.Uint16(clx[i+1:]))
		case 0x02:
			if i+5 > len(clx) {
				return nil, fmt.Errorf("%w: doc: truncated Pcdt", ErrCorrupt)
			}
			lcb := int(le.Uint32(clx[i+1:]))
			plc := clx[i+5:]
			if lcb < 4 || lcb > len(plc) || (lcb-4)%12 != 0 {
				return nil, fmt.Errorf("%w: doc: malformed PlcPcd", ErrCorrupt)
			}
			plc = plc[:lcb]
			n := (lcb - 4) / 12
			pieces := make([]piece, n)
			pcdAt := 4 * (n + 1)
			for j := range pieces {
				cpStart := int(le.Uint32(plc[4*j:]))
				cpEnd := int(le.Uint32(plc[4*(j+1):]))
				if cpEnd < cpStart {
					return nil, fmt.Errorf("%w: doc: piece %d has negative length", ErrCorrupt, j)
				}
				fc := le.Uint32(plc[pcdAt+8*j+2:])
				pieces[j] = piece{
					chars:      cpEnd - cpStart,
					fc:         int(fc &^ pieceCompressed),
					compressed: fc&pieceCompressed != 0,
				}
			}
			return pieces, nil
		default:
			return nil, fmt.Errorf("%w: doc: unexpected Clx entry 0x%02x", ErrCorrupt, clx[i])
		}
	}
	return nil, fmt.Errorf("%w: doc: Clx has no piece table", ErrCorrupt)
}

// cleanWordText maps Word's in-band control characters to plain text:
// paragraph, cell, line and page marks become newlines, field instructions
// are dropped while field results are kept.
func cleanWordText(s string) string {
	var (
		sb     strings.Builder
		fields []bool // per open field: true while in its instruction part
	)
	// Text inside any enclosing instruction belongs to that instruction,
	// including the results of fields nested in it.
	inInstruction := func() bool { return slices.Contains(fields, true) }
	for _, r := range s {
		switch r {
		case 0x13:
			fields = append(fields, true)
			continue
		case 0x14:
			if len(fields) > 0 {
				fields[len(fields)-1] = false
			}
			continue
		case 0x15:
			if len(fields) > 0 {
				fields = fields[:len(fields)-1]
			}
			continue
		}
		if inInstruction() {
			continue
		}
		switch {
		case r == '\r', r == 0x07, r == 0x0B, r == 0x0C, r == 0x0E:
			sb.WriteByte('\n')
		case r == 0x1E:
			sb.WriteByte('-')
		case r == '\t', r == '\n':
			sb.WriteRune(r)
		case r < 0x20:
		default:
			sb.WriteRune(r)
		}
	}
	return sb.String()
}
