package cbr

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/valuto/valuto/provider"
	"github.com/valuto/valuto/provider/httputil"
)

const hostname = "www.cbr.ru"

// refCode is the bank's home currency every document rate is quoted against.
const refCode = "RUB"

var _ provider.Source = (*source)(nil)

// NewSource returns a source for the cbr.ru daily bulletin. The document
// quotes everything against RUB, so the batch comes back pivoted; needed is
// the allow-list of codes worth keeping out of the full bulletin.
func NewSource(client *http.Client, needed []string) *source {
	neededSet := make(map[string]struct{}, len(needed))
	for _, code := range needed {
		neededSet[code] = struct{}{}
	}

	return &source{
		needed: neededSet,
		client: fetcher{
			u: &url.URL{
				Scheme: "https",
				Host:   hostname,
				Path:   "scripts/XML_daily.asp",
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
	needed map[string]struct{}
	client fetcher
}

func (s *source) Kind() provider.Kind { return provider.KindCBR }

func (s *source) FetchLatest(ctx context.Context) (provider.Quotes, error) {
	currDate := time.Now().UTC().Format("02/01/2006")
	query := s.client.u.Query()
	query.Set("date_req", currDate)
	s.client.u.RawQuery = query.Encode()

	b, err := s.client.Get(ctx, *s.client.u)
	if err != nil {
		return provider.Quotes{}, fmt.Errorf("fetching: %w", err)
	}

	quotes, err := decodeXML(b, s.needed)
	if err != nil {
		return provider.Quotes{}, fmt.Errorf("decode: %w", err)
	}

	return quotes, nil
}
