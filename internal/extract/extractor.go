package extract

// Signals are the facts the audit needs from one page.
type Signals struct {
	Dependencies []string
	Charset      Charset
}

// Extractor turns raw page text into Signals. Implementations must be safe
// for concurrent use.
type Extractor interface {
	Extract(body string) (Signals, error)
}

// GoqueryExtractor parses with x/net/html and walks the tree with goquery.
type GoqueryExtractor struct{}

func (GoqueryExtractor) Extract(body string) (Signals, error) {
	page, err := Parse(body)
	if err != nil {
		return Signals{}, err
	}
	return Signals{Dependencies: page.Dependencies(), Charset: page.Charset()}, nil
}
