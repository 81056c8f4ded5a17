package provider

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
)

var decimalComparer = cmp.Comparer(func(a, b decimal.Decimal) bool {
	return a.Equal(b)
})

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestNormalize_Direct(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		quotes   Quotes
		base     string
		expected map[string]decimal.Decimal
	}{
		{
			name: "test_identity",
			quotes: Quotes{
				Rates: map[string]decimal.Decimal{"EUR": d("0.9"), "GBP": d("0.8")},
			},
			base:     "USD",
			expected: map[string]decimal.Decimal{"EUR": d("0.9"), "GBP": d("0.8")},
		},
		{
			name: "test_base_row_forced_to_one",
			quotes: Quotes{
				Rates: map[string]decimal.Decimal{"USD": d("1.0000001"), "EUR": d("0.9")},
			},
			base:     "USD",
			expected: map[string]decimal.Decimal{"USD": d("1"), "EUR": d("0.9")},
		},
		{
			name:     "test_empty_batch",
			quotes:   Quotes{Rates: map[string]decimal.Decimal{}},
			base:     "USD",
			expected: map[string]decimal.Decimal{},
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			values, err := Normalize(tc.quotes, tc.base)
			if err != nil {
				t.Fatalf("normalize: %v", err)
			}

			if diff := cmp.Diff(tc.expected, values, decimalComparer); diff != "" {
				t.Errorf("values mismatch (-want, +got):\n%s", diff)
			}
		})
	}
}

func TestNormalize_Pivoted(t *testing.T) {
	t.Parallel()

	quotes := Quotes{
		Pivoted: true,
		Ref:     "RUB",
		Rates: map[string]decimal.Decimal{
			"USD": d("30.0"),
			"PLN": d("60.0"),
		},
	}

	values, err := Normalize(quotes, "USD")
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}

	expected := map[string]decimal.Decimal{
		"USD": d("1"),
		"RUB": d("30"),
		"PLN": d("0.5"),
	}

	if diff := cmp.Diff(expected, values, decimalComparer); diff != "" {
		t.Errorf("values mismatch (-want, +got):\n%s", diff)
	}
}

func TestNormalize_MissingPivotCurrency(t *testing.T) {
	t.Parallel()

	quotes := Quotes{
		Pivoted: true,
		Ref:     "RUB",
		Rates:   map[string]decimal.Decimal{"PLN": d("60.0")},
	}

	_, err := Normalize(quotes, "USD")
	if !errors.Is(err, ErrMissingPivotCurrency) {
		t.Fatalf("expected ErrMissingPivotCurrency, got: %v", err)
	}
}

func TestNormalize_PivotedZeroRateDropped(t *testing.T) {
	t.Parallel()

	quotes := Quotes{
		Pivoted: true,
		Ref:     "RUB",
		Rates: map[string]decimal.Decimal{
			"USD": d("30.0"),
			"PLN": d("0"),
		},
	}

	values, err := Normalize(quotes, "USD")
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}

	if _, ok := values["PLN"]; ok {
		t.Error("zero pivoted rate must be dropped, not divided by")
	}
}
