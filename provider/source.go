package provider

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Kind selects one of the supported quote providers.
type Kind string

const (
	// KindYahoo source name for the fixed-width finance quote download
	KindYahoo Kind = "yahoo"
	// KindOXR source name for openexchangerates.org
	KindOXR Kind = "openexchangerates"
	// KindCBR source name for the Russia central bank
	KindCBR Kind = "cbr"
)

// Source is an interface for getting raw exchange rate data from an external
// provider. A Source takes care of building the request, performing the fetch
// and decoding the body; it never touches storage and never re-pivots rates.
type Source interface {
	// Kind identifies the provider behind this source
	Kind() Kind

	// FetchLatest retrieves and decodes the latest raw quote batch
	FetchLatest(ctx context.Context) (Quotes, error)
}

// Quotes is the raw, provider-shaped result of one fetch. Rates are keyed by
// currency code and carry whatever reference the provider quotes against;
// Normalize reconciles them to the base-relative invariant.
type Quotes struct {
	// Time the provider issued the batch; zero means "now" to the caller
	Time time.Time

	// Rates maps currency code to the raw per-unit rate
	Rates map[string]decimal.Decimal

	// Pivoted marks rates quoted against Ref instead of the requested base
	Pivoted bool

	// Ref is the provider's home currency when Pivoted is set, e.g. "RUB"
	Ref string

	// Skipped counts rows dropped during decoding: malformed or empty
	// fixed-width lines, document rows outside the needed set. Dropping
	// them is expected provider behaviour, the count exists so tests and
	// operators can notice upstream schema drift.
	Skipped int
}
