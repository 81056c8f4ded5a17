package valuto

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/valuto/valuto/currency"
)

// SymbolPlaceholder is the token a symbol template substitutes with the
// record's left or right glyph.
const SymbolPlaceholder = "%symbol%"

// Rounding selects how Format rounds the scaled amount.
type Rounding string

const (
	// RoundingDefault rounds half away from zero at the record's decimal
	// place, or at Precision when one is supplied
	RoundingDefault Rounding = ""
	// RoundingCeiling rounds up to the nearest multiple of 10^-precision
	RoundingCeiling Rounding = "ceiling"
	// RoundingFloor rounds down likewise
	RoundingFloor Rounding = "floor"
)

// FormatOptions tunes a single Format call. The zero value renders the
// active currency with its own decimal place, default rounding and a bare
// "%symbol%" template.
type FormatOptions struct {
	// Code picks an explicit currency; empty or unknown falls back to the
	// active one
	Code string

	// SymbolTemplate wraps each non-empty symbol; empty means "%symbol%"
	SymbolTemplate string

	// Inverse divides by the record's rate instead of multiplying
	Inverse bool

	Rounding Rounding

	// Precision overrides the rounding step without touching how many
	// fractional digits get rendered
	Precision *int32

	// DecimalPlace overrides the record's fractional digit count
	DecimalPlace *int32

	// UseSpace inserts a space between symbol and number
	UseSpace bool
}

// Resolve returns the record for code when it is set and present, else the
// record for active. Callers guarantee active exists in the snapshot; an
// absent active yields the zero record.
func Resolve(snap currency.Snapshot, code, active string) currency.Currency {
	if code != "" {
		if cur, ok := snap.Get(code); ok {
			return cur
		}
	}

	cur, _ := snap.Get(active)

	return cur
}

// Format scales amount by the resolved record's rate, rounds it per opt and
// renders it with the record's separators and symbols.
//
// A zero stored rate means "no conversion": the amount passes through
// unscaled rather than dividing by zero.
func Format(snap currency.Snapshot, active string, amount decimal.Decimal, opt FormatOptions) string {
	cur := Resolve(snap, opt.Code, active)

	decPlace := cur.DecimalPlace
	if opt.DecimalPlace != nil {
		decPlace = *opt.DecimalPlace
	}

	scaled := scale(amount, cur.Value, opt.Inverse)

	prec := decPlace
	if opt.Precision != nil {
		prec = *opt.Precision
	}

	var rounded decimal.Decimal
	switch opt.Rounding {
	case RoundingCeiling:
		rounded = scaled.RoundCeil(prec)
	case RoundingFloor:
		rounded = scaled.RoundFloor(prec)
	default:
		rounded = scaled.Round(prec)
	}

	number := formatNumber(rounded, decPlace, cur.DecimalPoint, cur.ThousandPoint)

	template := opt.SymbolTemplate
	if template == "" {
		template = SymbolPlaceholder
	}

	var sb strings.Builder
	if cur.SymbolLeft != "" {
		sb.WriteString(strings.ReplaceAll(template, SymbolPlaceholder, cur.SymbolLeft))
		if opt.UseSpace {
			sb.WriteString(" ")
		}
	}

	sb.WriteString(number)

	if cur.SymbolRight != "" {
		if opt.UseSpace {
			sb.WriteString(" ")
		}
		sb.WriteString(strings.ReplaceAll(template, SymbolPlaceholder, cur.SymbolRight))
	}

	return sb.String()
}

// Convert translates amount from one currency into another through the
// base-relative rates, rounded to 2 fractional digits. Unlike Format there
// is no fallback: both codes must exist in the snapshot.
func Convert(snap currency.Snapshot, amount decimal.Decimal, from, to string) (decimal.Decimal, error) {
	fromCur, ok := snap.Get(from)
	if !ok {
		return decimal.Decimal{}, fmt.Errorf("%w: %s", ErrCurrencyNotFound, from)
	}

	toCur, ok := snap.Get(to)
	if !ok {
		return decimal.Decimal{}, fmt.Errorf("%w: %s", ErrCurrencyNotFound, to)
	}

	if fromCur.Value.IsZero() {
		return decimal.Decimal{}, fmt.Errorf("%w: %s has zero rate", ErrConversionRate, from)
	}

	return amount.Div(fromCur.Value).Mul(toCur.Value).Round(2), nil
}

// NormalizeForStorage scales a user-entered amount by the active currency's
// rate and renders it as a plain decimal string, point separator and no
// thousand grouping, ready to persist.
func NormalizeForStorage(snap currency.Snapshot, active string, amount decimal.Decimal, decimalPlace *int32) string {
	cur, _ := snap.Get(active)

	dec := cur.DecimalPlace
	if decimalPlace != nil {
		dec = *decimalPlace
	}

	return scale(amount, cur.Value, false).Round(dec).StringFixed(dec)
}

// Symbol returns the active currency's left glyph, or the right one when
// right is set.
func Symbol(snap currency.Snapshot, active string, right bool) string {
	cur, _ := snap.Get(active)
	if right {
		return cur.SymbolRight
	}

	return cur.SymbolLeft
}

func scale(amount, value decimal.Decimal, inverse bool) decimal.Decimal {
	if value.IsZero() {
		return amount
	}

	if inverse {
		return amount.Div(value)
	}

	return amount.Mul(value)
}

// formatNumber renders d with exactly decimals fractional digits using the
// given separators, grouping the integer part by thousands.
func formatNumber(d decimal.Decimal, decimals int32, decPoint, thousandPoint string) string {
	fixed := d.StringFixed(decimals)

	neg := strings.HasPrefix(fixed, "-")
	fixed = strings.TrimPrefix(fixed, "-")

	intPart := fixed
	var fracPart string
	if idx := strings.IndexByte(fixed, '.'); idx >= 0 {
		intPart, fracPart = fixed[:idx], fixed[idx+1:]
	}

	if thousandPoint != "" {
		var grouped strings.Builder
		for i, r := range intPart {
			if i > 0 && (len(intPart)-i)%3 == 0 {
				grouped.WriteString(thousandPoint)
			}
			grouped.WriteRune(r)
		}
		intPart = grouped.String()
	}

	var sb strings.Builder
	if neg {
		sb.WriteString("-")
	}

	sb.WriteString(intPart)

	if fracPart != "" {
		if decPoint == "" {
			decPoint = "."
		}
		sb.WriteString(decPoint)
		sb.WriteString(fracPart)
	}

	return sb.String()
}
