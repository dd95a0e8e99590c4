package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/manor5/electraSIR/internal/database"
	"github.com/manor5/electraSIR/internal/models"
)

const savedQueryColumns = `id, name, query, group_name, display_order, created_at, updated_at`

// SavedQueryRepository defines data access for console saved queries.
type SavedQueryRepository interface {
	// List returns every saved query, grouped queries first by group name,
	// then by display order, newest first within equal order.
	List(ctx context.Context) ([]models.SavedQuery, error)

	// Groups returns the distinct non-null group names.
	Groups(ctx context.Context) ([]string, error)

	// Get returns the saved query with id, or nil, nil when there is none.
	Get(ctx context.Context, id int64) (*models.SavedQuery, error)

	// Create stores a query at the end of its group.
	Create(ctx context.Context, name, query string, group *string) (*models.SavedQuery, error)

	// Update replaces name, text and group. Returns nil, nil when there is
	// no query with id.
	Update(ctx context.Context, id int64, name, query string, group *string) (*models.SavedQuery, error)

	// SetOrder sets the display order of one query.
	SetOrder(ctx context.Context, id int64, order int) (bool, error)

	// Reorder assigns display orders 0..n-1 to ids in one transaction.
	Reorder(ctx context.Context, ids []int64) error

	// Delete removes the query with id.
	Delete(ctx context.Context, id int64) (bool, error)
}

type savedQueryRepository struct {
	db *database.Database
}

// NewSavedQueryRepository creates a new instance of SavedQueryRepository.
func NewSavedQueryRepository(db *database.Database) SavedQueryRepository {
	return &savedQueryRepository{
		db: db,
	}
}

func (r *savedQueryRepository) List(ctx context.Context) ([]models.SavedQuery, error) {
	query := `
		SELECT ` + savedQueryColumns + `
		FROM saved_queries
		ORDER BY group_name NULLS LAST, display_order, created_at DESC
	`

	rows, err := r.db.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list saved queries: %w", err)
	}
	defer rows.Close()

	queries := make([]models.SavedQuery, 0)
	for rows.Next() {
		q, err := scanSavedQuery(rows)
		if err != nil {
			return nil, err
		}
		queries = append(queries, q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating saved queries: %w", err)
	}
	return queries, nil
}

func (r *savedQueryRepository) Groups(ctx context.Context) ([]string, error) {
	query := `
		SELECT DISTINCT group_name
		FROM saved_queries
		WHERE group_name IS NOT NULL
		ORDER BY group_name
	`

	rows, err := r.db.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list query groups: %w", err)
	}

	groups, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("failed to collect query groups: %w", err)
	}
	return groups, nil
}

func (r *savedQueryRepository) Get(ctx context.Context, id int64) (*models.SavedQuery, error) {
	query := `SELECT ` + savedQueryColumns + ` FROM saved_queries WHERE id = $1`

	q, err := scanSavedQuery(r.db.Pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get saved query %d: %w", id, err)
	}
	return &q, nil
}

func (r *savedQueryRepository) Create(ctx context.Context, name, queryText string, group *string) (*models.SavedQuery, error) {
	query := `
		INSERT INTO saved_queries (name, query, group_name, display_order, created_at, updated_at)
		VALUES (
			$1, $2, $3,
			(SELECT COALESCE(MAX(display_order) + 1, 0) FROM saved_queries WHERE group_name IS NOT DISTINCT FROM $3),
			NOW(), NOW()
		)
		RETURNING ` + savedQueryColumns

	q, err := scanSavedQuery(r.db.Pool.QueryRow(ctx, query, name, queryText, group))
	if err != nil {
		return nil, fmt.Errorf("failed to save query %q: %w", name, err)
	}
	return &q, nil
}

func (r *savedQueryRepository) Update(ctx context.Context, id int64, name, queryText string, group *string) (*models.SavedQuery, error) {
	query := `
		UPDATE saved_queries
		SET name = $2, query = $3, group_name = $4, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + savedQueryColumns

	q, err := scanSavedQuery(r.db.Pool.QueryRow(ctx, query, id, name, queryText, group))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to update saved query %d: %w", id, err)
	}
	return &q, nil
}

func (r *savedQueryRepository) SetOrder(ctx context.Context, id int64, order int) (bool, error) {
	tag, err := r.db.Pool.Exec(ctx,
		`UPDATE saved_queries SET display_order = $2, updated_at = NOW() WHERE id = $1`, id, order)
	if err != nil {
		return false, fmt.Errorf("failed to set order of saved query %d: %w", id, err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *savedQueryRepository) Reorder(ctx context.Context, ids []int64) error {
	return r.db.WithTx(ctx, func(tx pgx.Tx) error {
		batch := &pgx.Batch{}
		for i, id := range ids {
			batch.Queue(`UPDATE saved_queries SET display_order = $2, updated_at = NOW() WHERE id = $1`, id, i)
		}
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("failed to reorder saved queries: %w", err)
		}
		return nil
	})
}

func (r *savedQueryRepository) Delete(ctx context.Context, id int64) (bool, error) {
	tag, err := r.db.Pool.Exec(ctx, `DELETE FROM saved_queries WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete saved query %d: %w", id, err)
	}
	return tag.RowsAffected() > 0, nil
}

func scanSavedQuery(row pgx.Row) (models.SavedQuery, error) {
	var q models.SavedQuery
	err := row.Scan(
		&q.ID,
		&q.Name,
		&q.Query,
		&q.GroupName,
		&q.DisplayOrder,
		&q.CreatedAt,
		&q.UpdatedAt,
	)
	return q, err
}
