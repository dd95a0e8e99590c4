package repository

import (
	"context"
	"fmt"

	"github.com/manor5/electraSIR/internal/database"
)

// CounterRepository defines access to the single-row operation counter.
type CounterRepository interface {
	Increment(ctx context.Context) (int64, error)
	Get(ctx context.Context) (int64, error)
}

type counterRepository struct {
	db *database.Database
}

// NewCounterRepository creates a new instance of CounterRepository.
func NewCounterRepository(db *database.Database) CounterRepository {
	return &counterRepository{
		db: db,
	}
}

// Increment bumps the counter atomically and returns the new value.
func (r *counterRepository) Increment(ctx context.Context) (int64, error) {
	var value int64
	err := r.db.Pool.QueryRow(ctx,
		`UPDATE operation_counter SET count_value = count_value + 1 WHERE id = 1 RETURNING count_value`,
	).Scan(&value)
	if err != nil {
		return 0, fmt.Errorf("failed to increment operation counter: %w", err)
	}
	return value, nil
}

func (r *counterRepository) Get(ctx context.Context) (int64, error) {
	var value int64
	err := r.db.Pool.QueryRow(ctx, `SELECT count_value FROM operation_counter WHERE id = 1`).Scan(&value)
	if err != nil {
		return 0, fmt.Errorf("failed to read operation counter: %w", err)
	}
	return value, nil
}
