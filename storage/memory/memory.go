// Package memory provides an in-process Storage for tests and single-node
// deployments without a database.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"github.com/valuto/valuto/currency"
	"github.com/valuto/valuto/storage"
)

var _ storage.Storage = (*Storage)(nil)

type Storage struct {
	mu      sync.RWMutex
	records map[string]currency.Currency
}

func New(records ...currency.Currency) *Storage {
	m := make(map[string]currency.Currency, len(records))
	for _, r := range records {
		m[r.Code] = r
	}

	return &Storage{records: m}
}

func (s *Storage) List(_ context.Context) ([]currency.Currency, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list := make([]currency.Currency, 0, len(s.records))
	for _, r := range s.records {
		list = append(list, r)
	}

	sort.Slice(list, func(i, j int) bool { return list[i].Code < list[j].Code })

	return list, nil
}

func (s *Storage) UpdateRate(_ context.Context, code string, value decimal.Decimal, updatedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.records[code]
	if !ok {
		return fmt.Errorf("update rate %s: %w", code, storage.ErrNotFound)
	}

	r.Value = value
	r.UpdatedAt = updatedAt
	s.records[code] = r

	return nil
}
