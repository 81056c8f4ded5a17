package currency

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// Currency is a single stored currency definition. Code is the primary key
// and never changes; Value is the only field the synchronizer mutates.
//
// Value follows one invariant regardless of which provider produced it:
// one unit of the base currency equals Value units of this currency. The
// base currency's own record always carries Value == 1.
type Currency struct {
	Code          string
	Title         string
	SymbolLeft    string
	SymbolRight   string
	DecimalPlace  int32
	DecimalPoint  string
	ThousandPoint string
	Value         decimal.Decimal
	UpdatedAt     time.Time
}

// Snapshot is an immutable code -> Currency view built from storage in one
// pass. It is safe for concurrent readers; rebuild instead of mutating.
type Snapshot struct {
	currencies map[string]Currency
}

// NewSnapshot builds a snapshot from a list of records. Later duplicates of
// the same code win, matching a keyed read from storage.
func NewSnapshot(list []Currency) Snapshot {
	m := make(map[string]Currency, len(list))
	for _, c := range list {
		m[c.Code] = c
	}

	return Snapshot{currencies: m}
}

// Get returns the record for code.
func (s Snapshot) Get(code string) (Currency, bool) {
	c, ok := s.currencies[code]
	return c, ok
}

// Has reports whether code is present in the snapshot.
func (s Snapshot) Has(code string) bool {
	_, ok := s.currencies[code]
	return ok
}

// Len returns the number of records in the snapshot.
func (s Snapshot) Len() int {
	return len(s.currencies)
}

// Codes returns all currency codes in the snapshot, sorted.
func (s Snapshot) Codes() []string {
	codes := make([]string, 0, len(s.currencies))
	for code := range s.currencies {
		codes = append(codes, code)
	}

	sort.Strings(codes)

	return codes
}
