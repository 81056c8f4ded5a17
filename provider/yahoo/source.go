package yahoo

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/valuto/valuto/provider"
	"github.com/valuto/valuto/provider/httputil"
)

const hostname = "download.finance.yahoo.com"

var _ provider.Source = (*source)(nil)

// NewSource returns a source for the fixed-width finance quote download.
// Rates come back already quoted against base, one "<BASE><CODE>=X" symbol
// per requested code.
func NewSource(client *http.Client, base string, codes []string) *source {
	return &source{
		base:  base,
		codes: codes,
		client: fetcher{
			u: &url.URL{
				Scheme: "http",
				Host:   hostname,
				Path:   "d/quotes.csv",
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
	codes  []string
	client fetcher
}

func (s *source) Kind() provider.Kind { return provider.KindYahoo }

func (s *source) FetchLatest(ctx context.Context) (provider.Quotes, error) {
	symbols := make([]string, 0, len(s.codes))
	for _, code := range s.codes {
		symbols = append(symbols, s.base+code+"=X")
	}

	query := s.client.u.Query()
	query.Set("s", strings.Join(symbols, ","))
	query.Set("f", "sl1")
	query.Set("e", ".csv")
	s.client.u.RawQuery = query.Encode()

	b, err := s.client.Get(ctx, *s.client.u)
	if err != nil {
		return provider.Quotes{}, fmt.Errorf("fetching: %w", err)
	}

	return decodeQuotes(b), nil
}
