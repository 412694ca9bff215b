// Package bytelen measures how many bytes page text occupies in the charset
// the page declares.
package bytelen

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf16"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/hyperifyio/pagedeps/internal/extract"
)

// ErrUnsupportedCharset is matched by every UnsupportedCharsetError.
var ErrUnsupportedCharset = errors.New("unsupported charset")

// UnsupportedCharsetError names a charset no encoder is known for.
type UnsupportedCharsetError struct {
	Name string
}

func (e *UnsupportedCharsetError) Error() string {
	return fmt.Sprintf("unsupported charset %q", e.Name)
}

func (e *UnsupportedCharsetError) Is(target error) bool { return target == ErrUnsupportedCharset }

// Length is a page's encoded size together with the charset used to compute it.
type Length struct {
	Bytes     int
	Charset   string
	Specified bool
}

// String renders the length the way the lengths report shows it.
func (l Length) String() string {
	return fmt.Sprintf("%d Bytes - specified charset: %s (%s)", l.Bytes, YesNo(l.Specified), l.Charset)
}

// YesNo spells a boolean as "Yes" or "No".
func YesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

// aliases covers the short encoding names pages copy from server-side
// runtimes, which neither the WHATWG nor the IANA index knows.
var aliases = map[string]encoding.Encoding{
	"utf8":     unicode.UTF8,
	"utf-8":    unicode.UTF8,
	"ucs2":     unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM),
	"ucs-2":    unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM),
	"utf16le":  unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM),
	"utf-16le": unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM),
	"latin1":   charmap.ISO8859_1,
	"binary":   charmap.ISO8859_1,
	"ascii":    charmap.Windows1252,
}

// codeUnitAliases are the runtime single-byte names whose length is one byte
// per UTF-16 code unit, so a rune outside the BMP counts as two.
var codeUnitAliases = map[string]bool{
	"latin1": true,
	"binary": true,
	"ascii":  true,
}

func normalize(name string) string {
	return strings.ToLower(strings.Trim(name, " \t\r\n\"'"))
}

// Lookup resolves a charset name: runtime aliases first, then WHATWG labels,
// then IANA names. An empty name means UTF-8.
func Lookup(name string) (encoding.Encoding, error) {
	key := normalize(name)
	if key == "" {
		return unicode.UTF8, nil
	}
	if enc, ok := aliases[key]; ok {
		return enc, nil
	}
	if enc, err := htmlindex.Get(key); err == nil && enc != nil {
		return enc, nil
	}
	// ianaindex returns a nil encoding for names it knows but cannot encode.
	if enc, err := ianaindex.IANA.Encoding(key); err == nil && enc != nil {
		return enc, nil
	}
	return nil, &UnsupportedCharsetError{Name: name}
}

// Measure returns the number of bytes content occupies once encoded in cs.
// Content is treated as text: each invalid UTF-8 byte counts as one U+FFFD,
// and characters the target charset cannot represent count as its
// replacement byte(s). The latin1, binary and ascii aliases count one byte
// per UTF-16 code unit.
func Measure(content string, cs extract.Charset) (Length, error) {
	enc, err := Lookup(cs.Name)
	if err != nil {
		return Length{}, err
	}
	var n int
	if codeUnitAliases[normalize(cs.Name)] {
		n, err = CodeUnits(content)
	} else {
		n, err = Count(content, enc)
	}
	if err != nil {
		return Length{}, fmt.Errorf("encode as %s: %w", cs.Name, err)
	}
	return Length{Bytes: n, Charset: cs.Name, Specified: cs.Specified}, nil
}

// Count encodes s with enc and returns the encoded size without keeping the
// output.
func Count(s string, enc encoding.Encoding) (int, error) {
	s, err := validText(s)
	if err != nil {
		return 0, err
	}
	if enc == unicode.UTF8 {
		return len(s), nil
	}
	var cw countingWriter
	w := transform.NewWriter(&cw, encoding.ReplaceUnsupported(enc.NewEncoder()))
	if _, err := io.WriteString(w, s); err != nil {
		return 0, err
	}
	if err := w.Close(); err != nil {
		return 0, err
	}
	return cw.n, nil
}

// CodeUnits returns the number of UTF-16 code units in s.
func CodeUnits(s string) (int, error) {
	s, err := validText(s)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, r := range s {
		n += utf16.RuneLen(r)
	}
	return n, nil
}

// validText replaces every invalid UTF-8 byte with its own U+FFFD.
func validText(s string) (string, error) {
	out, _, err := transform.String(unicode.UTF8.NewDecoder(), s)
	if err != nil {
		return "", fmt.Errorf("decode text: %w", err)
	}
	return out, nil
}

type countingWriter struct {
	n int
}

func (c *countingWriter) Write(p []byte) (int, error) {
	c.n += len(p)
	return len(p), nil
}
