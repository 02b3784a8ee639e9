package seed

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/saintfish/chardet"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

const sniffSize = 4096

var boms = [][]byte{
	{0xEF, 0xBB, 0xBF},
	{0xFF, 0xFE},
	{0xFE, 0xFF},
}

// charsets maps chardet results onto the decoders seed documents are known to need.
var charsets = map[string]encoding.Encoding{
	"ISO-8859-1":   charmap.Windows1252,
	"windows-1252": charmap.Windows1252,
	"ISO-8859-9":   charmap.ISO8859_9,
	"ISO-8859-15":  charmap.ISO8859_15,
	"UTF-16LE":     unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM),
	"UTF-16BE":     unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM),
}

// utf8Reader returns r decoded to UTF-8.
//
// A leading BOM selects UTF-8 or UTF-16 and is stripped. Otherwise valid UTF-8
// passes through, chardet guesses anything else, and Windows-1252 is the
// fallback.
func utf8Reader(r io.Reader) (io.Reader, error) {
	br := bufio.NewReaderSize(r, sniffSize)

	buf, err := br.Peek(sniffSize)
	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		return nil, fmt.Errorf("sniffing charset: %w", err)
	}

	for _, bom := range boms {
		if bytes.HasPrefix(buf, bom) {
			return transform.NewReader(br, unicode.BOMOverride(transform.Nop)), nil
		}
	}

	if utf8.Valid(completeRunes(buf, len(buf) == sniffSize)) {
		return br, nil
	}

	if result, err := chardet.NewTextDetector().DetectBest(buf); err == nil {
		if result.Charset == "UTF-8" {
			return br, nil
		}

		if enc, ok := charsets[result.Charset]; ok {
			return transform.NewReader(br, enc.NewDecoder()), nil
		}
	}

	return transform.NewReader(br, charmap.Windows1252.NewDecoder()), nil
}

// completeRunes drops a multi-byte sequence cut off at the end of a truncated sniff buffer.
func completeRunes(buf []byte, truncated bool) []byte {
	if !truncated {
		return buf
	}

	for i := len(buf) - 1; i >= 0 && i >= len(buf)-utf8.UTFMax; i-- {
		if !utf8.RuneStart(buf[i]) {
			continue
		}

		if !utf8.FullRune(buf[i:]) {
			return buf[:i]
		}

		break
	}

	return buf
}
