// Package encoding normalizes uploaded spreadsheet exports to UTF-8.
package encoding

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/saintfish/chardet"
	xenc "golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// sniffLen is how much of the input is inspected before choosing a decoder.
const sniffLen = 4096

type bom struct {
	mark    []byte
	decoder func() *xenc.Decoder
}

// boms is checked in order. A UTF-8 mark is stripped, UTF-16 marks select
// the matching decoder which consumes the mark itself.
var boms = []bom{
	{mark: []byte{0xEF, 0xBB, 0xBF}},
	{mark: []byte{0xFF, 0xFE}, decoder: unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewDecoder},
	{mark: []byte{0xFE, 0xFF}, decoder: unicode.UTF16(unicode.BigEndian, unicode.UseBOM).NewDecoder},
}

// charsets maps chardet results to decoders. UTF-8 is handled before
// detection runs.
var charsets = map[string]func() *xenc.Decoder{
	"ISO-8859-1":   charmap.Windows1252.NewDecoder,
	"windows-1252": charmap.Windows1252.NewDecoder,
	"ISO-8859-9":   charmap.ISO8859_9.NewDecoder,
	"UTF-16LE":     unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewDecoder,
	"UTF-16BE":     unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM).NewDecoder,
}

// NewUTF8Reader returns a reader that yields the input as UTF-8. A byte
// order mark wins, then valid UTF-8 is passed through, then chardet picks a
// charset. Anything unrecognised is read as Windows-1252, the usual encoding
// of spreadsheet CSV exports on Windows.
func NewUTF8Reader(r io.Reader) (io.Reader, error) {
	br := bufio.NewReaderSize(r, sniffLen)

	head, err := br.Peek(sniffLen)
	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		return nil, fmt.Errorf("peek: %w", err)
	}

	for _, b := range boms {
		if !bytes.HasPrefix(head, b.mark) {
			continue
		}

		if b.decoder == nil {
			_, _ = br.Discard(len(b.mark))
			return br, nil
		}

		return transform.NewReader(br, b.decoder()), nil
	}

	if utf8.Valid(trimPartialRune(head)) {
		return br, nil
	}

	if result, err := chardet.NewTextDetector().DetectBest(head); err == nil {
		if result.Charset == "UTF-8" {
			return br, nil
		}

		if dec, ok := charsets[result.Charset]; ok {
			return transform.NewReader(br, dec()), nil
		}
	}

	return transform.NewReader(br, charmap.Windows1252.NewDecoder()), nil
}

// trimPartialRune drops a multi-byte sequence cut off at the end of the
// sniffed window so that it does not fail UTF-8 validation.
func trimPartialRune(b []byte) []byte {
	for i := 1; i < utf8.UTFMax && i <= len(b); i++ {
		c := b[len(b)-i]
		if c < utf8.RuneSelf {
			return b
		}

		if utf8.RuneStart(c) {
			if !utf8.FullRune(b[len(b)-i:]) {
				return b[:len(b)-i]
			}

			return b
		}
	}

	return b
}
