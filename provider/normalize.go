package provider

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Normalize reconciles a raw quote batch to the canonical representation:
// each returned value is the number of units of that currency equal to one
// unit of base. The base currency itself always comes out as exactly 1.
//
// For direct sources this is the identity transform. For a pivoted source
// every rate r in the batch is quoted against the provider's home currency
// Ref, so the base-relative value of a code is pivot/r where pivot is the
// base's own rate against Ref; Ref itself gets value pivot.
func Normalize(q Quotes, base string) (map[string]decimal.Decimal, error) {
	if !q.Pivoted {
		values := make(map[string]decimal.Decimal, len(q.Rates))
		for code, rate := range q.Rates {
			if code == base {
				values[code] = decimal.NewFromInt(1)
				continue
			}
			values[code] = rate
		}

		return values, nil
	}

	pivot, ok := q.Rates[base]
	if !ok || pivot.IsZero() {
		return nil, fmt.Errorf("%w: %s not in %s batch", ErrMissingPivotCurrency, base, q.Ref)
	}

	values := make(map[string]decimal.Decimal, len(q.Rates)+1)
	values[base] = decimal.NewFromInt(1)

	if q.Ref != "" && q.Ref != base {
		values[q.Ref] = pivot
	}

	for code, rate := range q.Rates {
		if code == base || code == q.Ref {
			continue
		}

		if rate.IsZero() {
			continue
		}

		values[code] = pivot.Div(rate)
	}

	return values, nil
}
