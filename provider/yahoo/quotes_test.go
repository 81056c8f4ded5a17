package yahoo

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
)

func TestDecodeQuotes(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name            string
		body            string
		expected        map[string]string
		expectedSkipped int
	}{
		{
			name:     "test_single_quote",
			body:     `"USDEUR=X",0.9234`,
			expected: map[string]string{"EUR": "0.9234"},
		},
		{
			name: "test_multiple_quotes",
			body: "\"USDEUR=X\",0.9234\n\"USDGBP=X\",0.8112\n\"USDJPY=X\",149.31",
			expected: map[string]string{
				"EUR": "0.9234",
				"GBP": "0.8112",
				"JPY": "149.31",
			},
		},
		{
			name:            "test_leading_zero_rate_field",
			body:            `"USDUSD=X",012345`,
			expected:        map[string]string{"USD": "12345"},
			expectedSkipped: 0,
		},
		{
			name:            "test_short_line_skipped",
			body:            "\"USDEUR=X\",0.9234\nUSD",
			expected:        map[string]string{"EUR": "0.9234"},
			expectedSkipped: 1,
		},
		{
			name:            "test_empty_rate_field_skipped",
			body:            "\"USDGBP=X\",      ",
			expected:        map[string]string{},
			expectedSkipped: 1,
		},
		{
			name:            "test_zero_rate_skipped",
			body:            `"USDAUD=X",0.0000`,
			expected:        map[string]string{},
			expectedSkipped: 1,
		},
		{
			name:            "test_garbage_rate_skipped",
			body:            `"USDAUD=X",N/A   `,
			expected:        map[string]string{},
			expectedSkipped: 1,
		},
		{
			name:     "test_crlf_lines",
			body:     "\"USDEUR=X\",0.9234\r\n\"USDGBP=X\",0.8112\r\n",
			expected: map[string]string{"EUR": "0.9234", "GBP": "0.8112"},
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			quotes := decodeQuotes([]byte(tc.body))

			got := make(map[string]string, len(quotes.Rates))
			for code, rate := range quotes.Rates {
				got[code] = rate.String()
			}

			if diff := cmp.Diff(tc.expected, got); diff != "" {
				t.Errorf("rates mismatch (-want, +got):\n%s", diff)
			}

			if diff := cmp.Diff(tc.expectedSkipped, quotes.Skipped); diff != "" {
				t.Errorf("skipped mismatch (-want, +got):\n%s", diff)
			}

			if quotes.Pivoted {
				t.Error("yahoo quotes must not be pivoted")
			}
		})
	}
}

func TestDecodeQuotes_RateValue(t *testing.T) {
	t.Parallel()

	quotes := decodeQuotes([]byte(`"USDEUR=X",0.9234`))

	if !quotes.Rates["EUR"].Equal(decimal.RequireFromString("0.9234")) {
		t.Errorf("unexpected rate: %s", quotes.Rates["EUR"])
	}
}
