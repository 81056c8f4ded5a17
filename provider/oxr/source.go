package oxr

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/valuto/valuto/provider"
	"github.com/valuto/valuto/provider/httputil"
)

const hostname = "openexchangerates.org"

var _ provider.Source = (*source)(nil)

// NewSource returns a source for openexchangerates.org. Rates come back
// quoted directly against base; appID is the account's app_id credential and
// must be validated by the caller before any fetch.
func NewSource(client *http.Client, base, appID string) *source {
	return &source{
		base:  base,
		appID: appID,
		client: fetcher{
			u: &url.URL{
				Scheme: "https",
				Host:   hostname,
				Path:   "api/latest.json",
			},
			SourceHTTPClient: httputil.NewHTTPClient(client),
		},
	}
}

type fetcher struct {
	u *url.URL
	httputil.SourceHTTPClient
}

type source struct {
	base   string
	appID  string
	client fetcher
}

func (s *source) Kind() provider.Kind { return provider.KindOXR }

func (s *source) FetchLatest(ctx context.Context) (provider.Quotes, error) {
	query := s.client.u.Query()
	query.Set("base", s.base)
	query.Set("app_id", s.appID)
	s.client.u.RawQuery = query.Encode()

	b, err := s.client.Get(ctx, *s.client.u)
	if err != nil {
		return provider.Quotes{}, fmt.Errorf("fetching: %w", err)
	}

	quotes, err := decodeJSON(b)
	if err != nil {
		return provider.Quotes{}, fmt.Errorf("decode: %w", err)
	}

	return quotes, nil
}
