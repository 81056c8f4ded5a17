// Package valuto maintains a set of currency definitions and their exchange
// rates relative to a configurable base currency. Rates are synchronized
// on demand from external quote providers (see provider/...), cached as an
// immutable snapshot, and consumed by pure conversion and formatting
// functions.
package valuto

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/valuto/valuto/cache"
	"github.com/valuto/valuto/currency"
	"github.com/valuto/valuto/storage"
)

// DefaultCurrency is the fallback base/active code when none is configured.
const DefaultCurrency = "USD"

type Option func(*Exchanger)

// WithUseSpace inserts a space between symbol and number when formatting
func WithUseSpace(use bool) Option {
	return func(e *Exchanger) {
		e.useSpace = use
	}
}

// WithDefaultCurrency sets the code used when a caller has no selection
func WithDefaultCurrency(code string) Option {
	return func(e *Exchanger) {
		e.defaultCode = code
	}
}

// New returns an Exchanger over the given storage and cache slot.
func New(st storage.Storage, slot cache.Slot, opts ...Option) *Exchanger {
	e := &Exchanger{
		storage:     st,
		slot:        slot,
		defaultCode: DefaultCurrency,
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Exchanger binds the snapshot slot, the storage behind it and the global
// formatting options into one convenient facade. All reads go through the
// cached snapshot; the only mutation is cache invalidation.
type Exchanger struct {
	storage     storage.Storage
	slot        cache.Slot
	useSpace    bool
	defaultCode string
}

// DefaultCode returns the configured fallback currency code.
func (e *Exchanger) DefaultCode() string { return e.defaultCode }

// Selector returns a precedence resolver bound to this exchanger's default
// code and the given stores.
func (e *Exchanger) Selector(session, sticky KV) Selector {
	return Selector{Session: session, Sticky: sticky, Default: e.defaultCode}
}

// Snapshot returns the cached currency table, rebuilding it from storage
// after an invalidation. Concurrent callers may rebuild in parallel; each
// observes a complete snapshot.
func (e *Exchanger) Snapshot(ctx context.Context) (currency.Snapshot, error) {
	snap, err := e.slot.GetOrBuild(ctx, CacheKey, func(ctx context.Context) (currency.Snapshot, error) {
		list, err := e.storage.List(ctx)
		if err != nil {
			return currency.Snapshot{}, fmt.Errorf("list currencies: %w", err)
		}

		return currency.NewSnapshot(list), nil
	})
	if err != nil {
		return currency.Snapshot{}, err
	}

	return snap, nil
}

// InvalidateCache drops the cached snapshot; the next Snapshot call rebuilds
// it from storage.
func (e *Exchanger) InvalidateCache() {
	e.slot.Invalidate(CacheKey)
}

// Format renders amount in the currency resolved from opt.Code and active,
// applying the exchanger-wide spacing option.
func (e *Exchanger) Format(ctx context.Context, active string, amount decimal.Decimal, opt FormatOptions) (string, error) {
	snap, err := e.Snapshot(ctx)
	if err != nil {
		return "", err
	}

	opt.UseSpace = e.useSpace

	return Format(snap, active, amount, opt), nil
}

// Rounded formats amount with an explicit decimal place and no symbol
// template beyond the bare glyphs.
func (e *Exchanger) Rounded(ctx context.Context, active string, amount decimal.Decimal, decimalPlace int32) (string, error) {
	return e.Format(ctx, active, amount, FormatOptions{DecimalPlace: &decimalPlace})
}

// Convert translates amount between two codes present in the snapshot.
func (e *Exchanger) Convert(ctx context.Context, amount decimal.Decimal, from, to string) (decimal.Decimal, error) {
	snap, err := e.Snapshot(ctx)
	if err != nil {
		return decimal.Decimal{}, err
	}

	return Convert(snap, amount, from, to)
}

// NormalizeForStorage renders amount, entered in the active currency, as a
// plain base-relative decimal string.
func (e *Exchanger) NormalizeForStorage(ctx context.Context, active string, amount decimal.Decimal, decimalPlace *int32) (string, error) {
	snap, err := e.Snapshot(ctx)
	if err != nil {
		return "", err
	}

	return NormalizeForStorage(snap, active, amount, decimalPlace), nil
}

// Symbol returns the active currency's glyph.
func (e *Exchanger) Symbol(ctx context.Context, active string, right bool) (string, error) {
	snap, err := e.Snapshot(ctx)
	if err != nil {
		return "", err
	}

	return Symbol(snap, active, right), nil
}
