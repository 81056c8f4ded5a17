package yahoo

import (
	"strings"

	"github.com/shopspring/decimal"
	"github.com/valuto/valuto/provider"
)

// Each line quotes one "<BASE><CODE>=X" symbol followed by the rate:
//
//	"USDEUR=X",0.9234
//	0123456789012345678
//
// The code occupies the 3 bytes starting at offset 4, the rate the 6 bytes
// starting at offset 11.
const (
	codeOffset = 4
	codeLen    = 3
	rateOffset = 11
	rateLen    = 6
	minLineLen = rateOffset + rateLen
)

// decodeQuotes parses the fixed-width quote lines. Lines too short for the
// expected offsets and lines with an empty or zero rate field are dropped,
// counted in Quotes.Skipped: the provider emits such rows for symbols it has
// no quote for, and they mean "no update", not a broken batch.
func decodeQuotes(b []byte) provider.Quotes {
	quotes := provider.Quotes{Rates: make(map[string]decimal.Decimal)}

	for _, line := range strings.Split(strings.TrimSpace(string(b)), "\n") {
		line = strings.TrimRight(line, "\r")
		if len(line) < minLineLen {
			quotes.Skipped++
			continue
		}

		code := line[codeOffset : codeOffset+codeLen]
		field := strings.TrimSpace(line[rateOffset : rateOffset+rateLen])
		if field == "" {
			quotes.Skipped++
			continue
		}

		rate, err := decimal.NewFromString(field)
		if err != nil || rate.IsZero() {
			quotes.Skipped++
			continue
		}

		quotes.Rates[code] = rate
	}

	return quotes
}
