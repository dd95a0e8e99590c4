package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/manor5/electraSIR/internal/database"
	"github.com/manor5/electraSIR/internal/models"
	"github.com/manor5/electraSIR/internal/sqlbuilder"
)

const missingColumns = `id, localid::text, ac::text, part::text, serial::text, epic, name, gender, relname, rln_type, age, name_tam, relname_tam, is_completed, is_mapped, constituency::text, booth_no, serial_no, best_match::text`

// MissingRepository defines data access for the staging table of records
// missing from the roll. Rows are only ever updated, never deleted.
type MissingRepository interface {
	// ListUnmapped returns one page of unmapped rows ordered by id, and the
	// total number of unmapped rows.
	ListUnmapped(ctx context.Context, limit, offset int) ([]models.MissingRecord, int64, error)

	// Get returns the row with id, or nil, nil when there is none.
	Get(ctx context.Context, id int64) (*models.MissingRecord, error)

	// MarkNoMatch flags the row as resolved without a roll match.
	// Reports false when no row has id.
	MarkNoMatch(ctx context.Context, id int64) (bool, error)

	// MapTo links the row to a roll row. Reports false when no row has id.
	MapTo(ctx context.Context, id int64, m models.Mapping) (bool, error)

	// Unmark clears the mapping flag and every linkage field.
	// Reports false when no row has id.
	Unmark(ctx context.Context, id int64) (bool, error)
}

type missingRepository struct {
	db    *database.Database
	table string
}

// NewMissingRepository creates a MissingRepository over table.
func NewMissingRepository(db *database.Database, table string) MissingRepository {
	return &missingRepository{
		db:    db,
		table: table,
	}
}

func unmappedSelect(table string) *sqlbuilder.SelectBuilder {
	return sqlbuilder.Select(table, missingColumns).Where(sqlbuilder.Eq("is_mapped", false))
}

func (r *missingRepository) ListUnmapped(ctx context.Context, limit, offset int) ([]models.MissingRecord, int64, error) {
	countSQL, countArgs := unmappedSelect(r.table).Count()

	var total int64
	if err := r.db.Pool.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count unmapped records: %w", err)
	}

	query, args := unmappedSelect(r.table).OrderBy("id ASC").Limit(limit).Offset(offset).Build()
	rows, err := r.db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list unmapped records (limit=%d, offset=%d): %w", limit, offset, err)
	}
	defer rows.Close()

	records := make([]models.MissingRecord, 0, limit)
	for rows.Next() {
		rec, err := scanMissing(rows)
		if err != nil {
			return nil, 0, err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating unmapped records: %w", err)
	}

	return records, total, nil
}

func (r *missingRepository) Get(ctx context.Context, id int64) (*models.MissingRecord, error) {
	query, args := sqlbuilder.Select(r.table, missingColumns).Where(sqlbuilder.Eq("id", id)).Build()

	rec, err := scanMissing(r.db.Pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get missing record %d: %w", id, err)
	}
	return &rec, nil
}

func (r *missingRepository) MarkNoMatch(ctx context.Context, id int64) (bool, error) {
	return r.exec(ctx, "mark missing record", id, buildMarkNoMatch(r.table, id))
}

func (r *missingRepository) MapTo(ctx context.Context, id int64, m models.Mapping) (bool, error) {
	return r.exec(ctx, "map missing record", id, buildMapTo(r.table, id, m))
}

func (r *missingRepository) Unmark(ctx context.Context, id int64) (bool, error) {
	return r.exec(ctx, "unmark missing record", id, buildUnmark(r.table, id))
}

func (r *missingRepository) exec(ctx context.Context, op string, id int64, stmt *sqlbuilder.UpdateBuilder) (bool, error) {
	query, args := stmt.Build()
	tag, err := r.db.Pool.Exec(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("failed to %s %d: %w", op, id, err)
	}
	return tag.RowsAffected() > 0, nil
}

func buildMarkNoMatch(table string, id int64) *sqlbuilder.UpdateBuilder {
	return sqlbuilder.Update(table).
		Set("is_mapped", true).
		Set("best_match", models.BestMatchNone).
		Where(sqlbuilder.Eq("id", id))
}

func buildMapTo(table string, id int64, m models.Mapping) *sqlbuilder.UpdateBuilder {
	return sqlbuilder.Update(table).
		Set("is_mapped", true).
		Set("best_match", m.Source.BestMatch()).
		Set("constituency", m.Constituency).
		Set("booth_no", m.BoothNo).
		Set("serial_no", m.SerialNo).
		Where(sqlbuilder.Eq("id", id))
}

func buildUnmark(table string, id int64) *sqlbuilder.UpdateBuilder {
	return sqlbuilder.Update(table).
		Set("is_mapped", false).
		SetNull("best_match").
		SetNull("constituency").
		SetNull("booth_no").
		SetNull("serial_no").
		Where(sqlbuilder.Eq("id", id))
}

func scanMissing(row pgx.Row) (models.MissingRecord, error) {
	var m models.MissingRecord
	err := row.Scan(
		&m.ID,
		&m.LocalID,
		&m.AC,
		&m.Part,
		&m.Serial,
		&m.Epic,
		&m.Name,
		&m.Gender,
		&m.RelName,
		&m.RlnType,
		&m.Age,
		&m.NameTamil,
		&m.RelNameTamil,
		&m.IsCompleted,
		&m.IsMapped,
		&m.Constituency,
		&m.BoothNo,
		&m.SerialNo,
		&m.BestMatch,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.MissingRecord{}, err
		}
		return models.MissingRecord{}, fmt.Errorf("failed to scan missing record: %w", err)
	}
	return m, nil
}
