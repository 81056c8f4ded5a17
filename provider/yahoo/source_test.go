package yahoo

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/valuto/valuto/provider"
)

func TestSource_FetchLatest(t *testing.T) {
	t.Parallel()

	var gotQuery url.Values

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		gotQuery = req.URL.Query()
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("\"USDEUR=X\",0.9234\n\"USDGBP=X\",0.8112\n"))
	}))
	defer srv.Close()

	source := NewSource(srv.Client(), "USD", []string{"EUR", "GBP"})

	u, err := url.Parse(srv.URL + "/d/quotes.csv")
	if err != nil {
		t.Fatalf("url parse: %v", err)
	}
	source.client.u = u

	quotes, err := source.FetchLatest(context.Background())
	if err != nil {
		t.Fatalf("fetch latest: %v", err)
	}

	if diff := cmp.Diff("USDEUR=X,USDGBP=X", gotQuery.Get("s")); diff != "" {
		t.Errorf("symbol query mismatch (-want, +got):\n%s", diff)
	}

	expected := map[string]string{"EUR": "0.9234", "GBP": "0.8112"}
	got := make(map[string]string, len(quotes.Rates))
	for code, rate := range quotes.Rates {
		got[code] = rate.String()
	}

	if diff := cmp.Diff(expected, got); diff != "" {
		t.Errorf("rates mismatch (-want, +got):\n%s", diff)
	}
}

func TestSource_Kind(t *testing.T) {
	t.Parallel()

	source := NewSource(http.DefaultClient, "USD", nil)
	if source.Kind() != provider.KindYahoo {
		t.Errorf("unexpected kind: %s", source.Kind())
	}
}

func TestSource_FetchLatest_TransportError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	source := NewSource(srv.Client(), "USD", []string{"EUR"})

	u, err := url.Parse(srv.URL)
	if err != nil {
		t.Fatalf("url parse: %v", err)
	}
	source.client.u = u

	if _, err := source.FetchLatest(context.Background()); err == nil {
		t.Fatal("expected error on http 500")
	}
}
