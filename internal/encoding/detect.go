// Package encoding normalizes bank statement exports to UTF-8. Brazilian
// banks still ship Latin-1 files next to UTF-8 and UTF-16 ones.
package encoding

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

// Charset names the encoding a statement was decoded from.
type Charset string

const (
	UTF8        Charset = "UTF-8"
	UTF16LE     Charset = "UTF-16LE"
	UTF16BE     Charset = "UTF-16BE"
	Windows1252 Charset = "windows-1252"
	ISO88591    Charset = "ISO-8859-1"
	ISO885915   Charset = "ISO-8859-15"
)

var boms = []struct {
	prefix  []byte
	charset Charset
}{
	{[]byte{0xEF, 0xBB, 0xBF}, UTF8},
	{[]byte{0xFF, 0xFE}, UTF16LE},
	{[]byte{0xFE, 0xFF}, UTF16BE},
}

func (c Charset) decoder() encoding.Encoding {
	switch c {
	case UTF16LE:
		return unicode.UTF16(unicode.LittleEndian, unicode.UseBOM)
	case UTF16BE:
		return unicode.UTF16(unicode.BigEndian, unicode.UseBOM)
	case ISO88591:
		return charmap.ISO8859_1
	case ISO885915:
		return charmap.ISO8859_15
	case Windows1252:
		return charmap.Windows1252
	}

	return nil
}

// Detect guesses the charset of a statement prefix. A BOM wins, then valid
// UTF-8, then chardet's best guess among the Latin charsets banks use.
// Anything else is read as Windows-1252.
func Detect(prefix []byte) Charset {
	for _, b := range boms {
		if bytes.HasPrefix(prefix, b.prefix) {
			return b.charset
		}
	}

	if utf8.Valid(trimPartialRune(prefix)) {
		return UTF8
	}

	result, err := chardet.NewTextDetector().DetectBest(prefix)
	if err == nil {
		switch result.Charset {
		case "UTF-8":
			return UTF8
		case "ISO-8859-1":
			return ISO88591
		case "ISO-8859-15":
			return ISO885915
		}
	}

	return Windows1252
}

// trimPartialRune drops a multi-byte sequence cut off at the end of the
// sniff window.
func trimPartialRune(b []byte) []byte {
	for i := 1; i < utf8.UTFMax && i <= len(b); i++ {
		if utf8.RuneStart(b[len(b)-i]) {
			if !utf8.FullRune(b[len(b)-i:]) {
				return b[:len(b)-i]
			}

			break
		}
	}

	return b
}

// NewUTF8Reader returns a reader that yields r decoded to UTF-8 along with
// the charset it detected. A UTF-8 BOM is dropped.
func NewUTF8Reader(r io.Reader) (io.Reader, Charset, error) {
	br := bufio.NewReaderSize(r, sniffSize)

	prefix, err := br.Peek(sniffSize)
	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		return nil, "", fmt.Errorf("peek statement: %w", err)
	}

	charset := Detect(prefix)

	if charset == UTF8 {
		if bytes.HasPrefix(prefix, boms[0].prefix) {
			_, _ = br.Discard(len(boms[0].prefix))
		}

		return br, charset, nil
	}

	return transform.NewReader(br, charset.decoder().NewDecoder()), charset, nil
}
