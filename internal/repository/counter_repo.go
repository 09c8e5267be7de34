package repository

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"
)

// CounterRepository implements sequence.CounterStore over the single-row
// invoice_counter table.
type CounterRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewCounterRepository creates a new counter repository.
func NewCounterRepository(db *sql.DB, logger *zap.Logger) *CounterRepository {
	return &CounterRepository{
		db:     db,
		logger: logger,
	}
}

// Increment atomically advances the invoice counter and returns the new
// value. The statement is a single upsert: the first-ever call creates
// the row at 1, every later call bumps it, and two concurrent callers
// can never observe the same value. This deliberately replaces a
// read-then-write counter, which hands out duplicates under concurrency.
func (r *CounterRepository) Increment(ctx context.Context) (int64, error) {
	query := `
		INSERT INTO invoice_counter (id, counter) VALUES (1, 1)
		ON CONFLICT(id) DO UPDATE SET counter = counter + 1
		RETURNING counter
	`

	var value int64
	if err := r.db.QueryRowContext(ctx, query).Scan(&value); err != nil {
		r.logger.Error("Failed to increment invoice counter", zap.Error(err))
		return 0, fmt.Errorf("failed to increment invoice counter: %w", err)
	}
	return value, nil
}

// Current reads the counter without advancing it; 0 means no invoice has
// ever been numbered.
func (r *CounterRepository) Current(ctx context.Context) (int64, error) {
	var value int64
	err := r.db.QueryRowContext(ctx, `SELECT counter FROM invoice_counter WHERE id = 1`).Scan(&value)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read invoice counter: %w", err)
	}
	return value, nil
}
