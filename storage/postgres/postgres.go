// Package postgres implements Storage over a pgx connection pool. The
// currencies table is created out-of-band; see migrations in the deployment
// repo.
package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/valuto/valuto/currency"
	"github.com/valuto/valuto/storage"
)

var _ storage.Storage = (*Storage)(nil)

type Storage struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Storage {
	return &Storage{pool: pool}
}

// Connect dials the pool and pings it once so a bad DSN fails fast.
func Connect(ctx context.Context, dsn string) (*Storage, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("pgxpool.New: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}

	return &Storage{pool: pool}, nil
}

func (s *Storage) Close() {
	s.pool.Close()
}

func (s *Storage) List(ctx context.Context) ([]currency.Currency, error) {
	query := `
		SELECT code, title, symbol_left, symbol_right, decimal_place, decimal_point, thousand_point, value, updated_at
		FROM currencies
		ORDER BY code;
	`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list currencies: %w", err)
	}
	defer rows.Close()

	var list []currency.Currency
	for rows.Next() {
		var c currency.Currency
		if err := rows.Scan(
			&c.Code,
			&c.Title,
			&c.SymbolLeft,
			&c.SymbolRight,
			&c.DecimalPlace,
			&c.DecimalPoint,
			&c.ThousandPoint,
			&c.Value,
			&c.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan currency: %w", err)
		}

		list = append(list, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate currencies: %w", err)
	}

	return list, nil
}

func (s *Storage) UpdateRate(ctx context.Context, code string, value decimal.Decimal, updatedAt time.Time) error {
	query := `
		UPDATE currencies
		SET value = $2, updated_at = $3
		WHERE code = $1;
	`

	tag, err := s.pool.Exec(ctx, query, code, value, updatedAt)
	if err != nil {
		return fmt.Errorf("update rate %s: %w", code, err)
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update rate %s: %w", code, storage.ErrNotFound)
	}

	return nil
}
