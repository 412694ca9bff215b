package extract

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// DefaultCharset is reported for pages that declare no charset.
const DefaultCharset = "utf8"

// Charset is the encoding a page declares, or the default when it declares none.
type Charset struct {
	Name      string
	Specified bool
}

// Page is a parsed HTML document.
type Page struct {
	doc *goquery.Document
}

// Parse builds a Page from raw HTML. The parser recovers from unmatched or
// missing tags and stray attributes the way browsers do.
func Parse(body string) (*Page, error) {
	node, err := html.Parse(strings.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	return &Page{doc: goquery.NewDocumentFromNode(node)}, nil
}

// Dependencies lists the file name of every external script in document
// order. Repeated references are kept.
func (p *Page) Dependencies() []string {
	deps := make([]string, 0, 8)
	p.doc.Find("script").Each(func(_ int, s *goquery.Selection) {
		src, ok := s.Attr("src")
		if !ok {
			return
		}
		deps = append(deps, DependencyName(src))
	})
	return deps
}

// DependencyName reduces a script src to its file name: the query string and
// line breaks are dropped and only the segment after the last '/' is kept.
// The parser turns a carriage return inside an attribute into '\n', so both
// are removed.
func DependencyName(src string) string {
	if i := strings.IndexByte(src, '?'); i >= 0 {
		src = src[:i]
	}
	src = strings.NewReplacer("\r", "", "\n", "").Replace(src)
	if i := strings.LastIndexByte(src, '/'); i >= 0 {
		src = src[i+1:]
	}
	return src
}

// Charset returns the first charset declared by a <meta> element, either as
// a charset attribute or as a "charset=" segment of a content attribute.
// Content that mentions charset without a value, such as a description,
// does not qualify and the scan continues.
func (p *Page) Charset() Charset {
	found := Charset{Name: DefaultCharset}
	p.doc.Find("meta").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if v, ok := s.Attr("charset"); ok {
			found = Charset{Name: strings.TrimSpace(v), Specified: true}
			return false
		}
		content, ok := s.Attr("content")
		if !ok {
			return true
		}
		name, ok := charsetFromContent(content)
		if !ok {
			return true
		}
		found = Charset{Name: name, Specified: true}
		return false
	})
	return found
}

// charsetFromContent finds the charset segment in a value such as
// "text/html; charset=iso-8859-1".
func charsetFromContent(content string) (string, bool) {
	for _, seg := range strings.Split(content, ";") {
		if !strings.Contains(strings.ToLower(seg), "charset") {
			continue
		}
		_, value, ok := strings.Cut(seg, "=")
		if !ok {
			continue
		}
		return strings.TrimSpace(value), true
	}
	return "", false
}
