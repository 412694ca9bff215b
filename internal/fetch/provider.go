package fetch

import (
	"context"
	"errors"
)

// Content is the raw text of one page together with where it came from.
type Content struct {
	Location    string
	Kind        Kind
	Body        string
	ContentType string
}

// Getter is the remote half of a Provider. *Client satisfies it.
type Getter interface {
	Get(ctx context.Context, url string) ([]byte, string, error)
}

// Provider resolves a location to page content, reading local files directly
// and delegating remote locations to Remote.
type Provider struct {
	Remote Getter
	Tilde  TildePolicy
}

// Fetch retrieves the content behind location. Failures are always
// *FetchError values naming the location.
func (p *Provider) Fetch(ctx context.Context, location string) (Content, error) {
	kind := Classify(location)
	if kind == Local {
		body, err := ReadLocal(location, p.Tilde)
		if err != nil {
			return Content{}, err
		}
		return Content{Location: location, Kind: kind, Body: body}, nil
	}
	if p.Remote == nil {
		return Content{}, &FetchError{Kind: RemoteFetchFailure, Location: location, Err: errors.New("no remote client configured")}
	}
	b, ct, err := p.Remote.Get(ctx, location)
	if err != nil {
		return Content{}, &FetchError{Kind: RemoteFetchFailure, Location: location, Err: err}
	}
	return Content{Location: location, Kind: kind, Body: string(b), ContentType: ct}, nil
}
