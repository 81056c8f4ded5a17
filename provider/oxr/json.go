package oxr

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
	"github.com/valuto/valuto/provider"
)

type latestPayload struct {
	Error       bool               `json:"error"`
	Description string             `json:"description"`
	Timestamp   int64              `json:"timestamp"`
	Rates       map[string]float64 `json:"rates"`
}

// decodeJSON parses the latest.json payload. A well-formed body carrying
// {"error":true} becomes a ProviderError with the provider's own description;
// anything unparseable becomes a ParseError.
func decodeJSON(b []byte) (provider.Quotes, error) {
	var payload latestPayload
	if err := json.Unmarshal(b, &payload); err != nil {
		return provider.Quotes{}, &provider.ParseError{Kind: provider.KindOXR, Err: err}
	}

	if payload.Error {
		return provider.Quotes{}, &provider.ProviderError{Kind: provider.KindOXR, Description: payload.Description}
	}

	quotes := provider.Quotes{Rates: make(map[string]decimal.Decimal, len(payload.Rates))}
	if payload.Timestamp > 0 {
		quotes.Time = time.Unix(payload.Timestamp, 0).UTC()
	}

	for code, rate := range payload.Rates {
		quotes.Rates[code] = decimal.NewFromFloat(rate)
	}

	return quotes, nil
}
