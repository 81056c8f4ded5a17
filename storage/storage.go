// Package storage declares the persistence boundary for currency records.
// The rate synchronizer only ever mutates a record's value and updated_at;
// records are created out-of-band and never deleted here.
package storage

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"github.com/valuto/valuto/currency"
)

// ErrNotFound is returned by UpdateRate when no record carries the code.
var ErrNotFound = errors.New("currency not found")

type Storage interface {
	// List reads every currency record in one pass
	List(ctx context.Context) ([]currency.Currency, error)

	// UpdateRate sets value and updated_at on the record with code
	UpdateRate(ctx context.Context, code string, value decimal.Decimal, updatedAt time.Time) error
}
