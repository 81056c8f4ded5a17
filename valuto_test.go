package valuto

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valuto/valuto/cache"
	"github.com/valuto/valuto/currency"
	"github.com/valuto/valuto/storage/memory"
)

type countingStorage struct {
	*memory.Storage
	lists int
}

func (c *countingStorage) List(ctx context.Context) ([]currency.Currency, error) {
	c.lists++
	return c.Storage.List(ctx)
}

func newTestExchanger(opts ...Option) (*Exchanger, *countingStorage) {
	st := &countingStorage{Storage: memory.New(
		currency.Currency{
			Code:          "USD",
			SymbolLeft:    "$",
			DecimalPlace:  2,
			DecimalPoint:  ".",
			ThousandPoint: ",",
			Value:         decimal.RequireFromString("1"),
		},
		currency.Currency{
			Code:          "EUR",
			SymbolLeft:    "€",
			DecimalPlace:  2,
			DecimalPoint:  ",",
			ThousandPoint: ".",
			Value:         decimal.RequireFromString("0.9"),
		},
	)}

	return New(st, cache.NewMemory(), opts...), st
}

func TestExchangerSnapshotCaching(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	e, st := newTestExchanger()

	first, err := e.Snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, first.Len())

	_, err = e.Snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, st.lists, "second read must come from the cache")

	e.InvalidateCache()

	_, err = e.Snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, st.lists, "invalidation must force a rebuild")
}

func TestExchangerSnapshotStorageError(t *testing.T) {
	t.Parallel()

	boom := errors.New("storage down")
	e := New(failingStorage{err: boom}, cache.NewMemory())

	_, err := e.Snapshot(context.Background())
	require.ErrorIs(t, err, boom)

	// Errors are not cached: a later call hits storage again and fails again.
	_, err = e.Snapshot(context.Background())
	require.ErrorIs(t, err, boom)
}

type failingStorage struct {
	err error
}

func (f failingStorage) List(context.Context) ([]currency.Currency, error) {
	return nil, f.err
}

func (f failingStorage) UpdateRate(context.Context, string, decimal.Decimal, time.Time) error {
	return f.err
}

func TestExchangerFormat(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	e, _ := newTestExchanger()
	got, err := e.Format(ctx, "USD", decimal.RequireFromString("1000"), FormatOptions{})
	require.NoError(t, err)
	assert.Equal(t, "$1,000.00", got)

	spaced, _ := newTestExchanger(WithUseSpace(true))
	got, err = spaced.Format(ctx, "USD", decimal.RequireFromString("1000"), FormatOptions{})
	require.NoError(t, err)
	assert.Equal(t, "$ 1,000.00", got, "exchanger-wide spacing applies to every call")
}

func TestExchangerRounded(t *testing.T) {
	t.Parallel()

	e, _ := newTestExchanger()

	got, err := e.Rounded(context.Background(), "USD", decimal.RequireFromString("1234.5678"), 1)
	require.NoError(t, err)
	assert.Equal(t, "$1,234.6", got)
}

func TestExchangerConvert(t *testing.T) {
	t.Parallel()

	e, _ := newTestExchanger()

	got, err := e.Convert(context.Background(), decimal.RequireFromString("100"), "USD", "EUR")
	require.NoError(t, err)
	assert.True(t, got.Equal(decimal.RequireFromString("90")))
}

func TestExchangerDefaults(t *testing.T) {
	t.Parallel()

	e, _ := newTestExchanger()
	assert.Equal(t, "USD", e.DefaultCode())

	custom, _ := newTestExchanger(WithDefaultCurrency("EUR"))
	assert.Equal(t, "EUR", custom.DefaultCode())

	s := custom.Selector(newMapKV(), newMapKV())
	assert.Equal(t, "EUR", s.Default)
}
