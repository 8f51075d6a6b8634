package variant

import (
	"bytes"
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/gogs/chardet"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

var errEmpty = errors.New("marker is empty")

// decode converts marker bytes to UTF-8. A byte order mark decides the
// encoding when present; otherwise the charset is detected from content.
func decode(b []byte) (string, error) {
	if len(bytes.TrimSpace(b)) == 0 {
		return "", errEmpty
	}
	enc := detect(b)
	out, _, err := transform.Bytes(unicode.BOMOverride(enc.NewDecoder()), b)
	if err != nil {
		return "", fmt.Errorf("decode marker: %w", err)
	}
	return string(out), nil
}

// detect guesses the encoding of b. UTF-16 without a byte order mark is
// recognised by its NUL bytes first, since ASCII in UTF-16 is also valid
// UTF-8. Other valid UTF-8 is taken as is; anything the detector cannot
// name, or that has no decoder, is read as UTF-8.
func detect(b []byte) encoding.Encoding {
	if enc := utf16Guess(b); enc != nil {
		return enc
	}
	if utf8.Valid(b) {
		return unicode.UTF8
	}
	res, err := chardet.NewTextDetector().DetectBest(b)
	if err != nil || res == nil {
		return unicode.UTF8
	}
	enc, err := ianaindex.IANA.Encoding(res.Charset)
	if err != nil || enc == nil {
		return unicode.UTF8
	}
	return enc
}

// utf16Guess reports UTF-16 when at least half the code units of b hold a
// NUL in the same byte position and none in the other.
func utf16Guess(b []byte) encoding.Encoding {
	if len(b) < 2 {
		return nil
	}
	var even, odd int
	for i, c := range b[:len(b)&^1] {
		if c != 0 {
			continue
		}
		if i%2 == 0 {
			even++
		} else {
			odd++
		}
	}
	units := len(b) / 2
	switch {
	case odd*2 >= units && even == 0:
		return unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)
	case even*2 >= units && odd == 0:
		return unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM)
	}
	return nil
}
