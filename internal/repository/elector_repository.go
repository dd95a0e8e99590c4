package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/manor5/electraSIR/internal/database"
	"github.com/manor5/electraSIR/internal/models"
	"github.com/manor5/electraSIR/internal/sqlbuilder"
)

// Result caps for roll queries.
const (
	SearchLimit    = 1200
	HouseholdLimit = 50
	CandidateLimit = 100
)

const electorColumns = `id, sequence, serial_no, name, relation, relative_name, gender, age, epic, booth_no, door_no, constituency::text AS constituency`

// ElectorFilter holds the predicates of a roll search. Empty fields add no
// predicate.
type ElectorFilter struct {
	Name         string
	RelativeName string
	Relation     string
	Epic         string
	// GenderToken is matched as a substring of the gender column.
	GenderToken string
	Booths      []int
	Ages        []int
	// Constituency is compared against the column's text form.
	Constituency string
}

// HouseholdQuery selects the residents of one door.
type HouseholdQuery struct {
	DoorNo  string
	Names   []string
	BoothNo *int
}

// CandidateScope selects which side of the flagship constituency a
// candidate search covers.
type CandidateScope int

const (
	InFlagship CandidateScope = iota
	OutsideFlagship
)

// CandidateQuery describes a reconciliation candidate search.
type CandidateQuery struct {
	Name         string
	RelativeName string
	Age          *int
	Flagship     string
	Scope        CandidateScope
}

// ElectorRepository defines data access for one roll table.
type ElectorRepository interface {
	// Search returns rows matching every predicate of filter, ordered by
	// sequence, capped at SearchLimit.
	Search(ctx context.Context, filter ElectorFilter) ([]models.Elector, error)

	// FindHousehold returns the rows sharing a door number whose relative
	// name is one of q.Names, capped at HouseholdLimit.
	FindHousehold(ctx context.Context, q HouseholdQuery) ([]models.Elector, error)

	// FindCandidates returns reconciliation candidates, capped at
	// CandidateLimit.
	FindCandidates(ctx context.Context, q CandidateQuery) ([]models.Elector, error)
}

type electorRepository struct {
	db    *database.Database
	table string
}

// NewElectorRepository creates an ElectorRepository over table.
func NewElectorRepository(db *database.Database, table string) ElectorRepository {
	return &electorRepository{
		db:    db,
		table: table,
	}
}

func (r *electorRepository) Search(ctx context.Context, filter ElectorFilter) ([]models.Elector, error) {
	query, args := buildSearchQuery(r.table, filter)
	electors, err := r.query(ctx, query, args)
	if err != nil {
		return nil, fmt.Errorf("failed to search electors: %w", err)
	}
	return electors, nil
}

func (r *electorRepository) FindHousehold(ctx context.Context, q HouseholdQuery) ([]models.Elector, error) {
	query, args := buildHouseholdQuery(r.table, q)
	electors, err := r.query(ctx, query, args)
	if err != nil {
		return nil, fmt.Errorf("failed to find household for door %q: %w", q.DoorNo, err)
	}
	return electors, nil
}

func (r *electorRepository) FindCandidates(ctx context.Context, q CandidateQuery) ([]models.Elector, error) {
	query, args := buildCandidateQuery(r.table, q)
	electors, err := r.query(ctx, query, args)
	if err != nil {
		return nil, fmt.Errorf("failed to find candidates: %w", err)
	}
	return electors, nil
}

func (r *electorRepository) query(ctx context.Context, query string, args []interface{}) ([]models.Elector, error) {
	rows, err := r.db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	electors := make([]models.Elector, 0)
	for rows.Next() {
		e, err := scanElector(rows)
		if err != nil {
			return nil, err
		}
		electors = append(electors, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating elector rows: %w", err)
	}
	return electors, nil
}

func scanElector(row pgx.Row) (models.Elector, error) {
	var e models.Elector
	err := row.Scan(
		&e.ID,
		&e.Sequence,
		&e.SerialNo,
		&e.Name,
		&e.Relation,
		&e.RelativeName,
		&e.Gender,
		&e.Age,
		&e.Epic,
		&e.BoothNo,
		&e.DoorNo,
		&e.Constituency,
	)
	if err != nil {
		return models.Elector{}, fmt.Errorf("failed to scan elector row: %w", err)
	}
	return e, nil
}

func buildSearchQuery(table string, f ElectorFilter) (string, []interface{}) {
	var where []sqlbuilder.Expr

	if f.Name != "" {
		where = append(where, sqlbuilder.ILike("name", f.Name))
	}
	if f.RelativeName != "" {
		where = append(where, sqlbuilder.ILike("relative_name", f.RelativeName))
	}
	if f.Relation != "" {
		where = append(where, sqlbuilder.ILike("relation", f.Relation))
	}
	if f.Epic != "" {
		where = append(where, sqlbuilder.ILike("epic", f.Epic))
	}
	if f.GenderToken != "" {
		where = append(where, sqlbuilder.ILike("gender", f.GenderToken))
	}
	if len(f.Booths) > 0 {
		where = append(where, sqlbuilder.In("booth_no", intsToArgs(f.Booths)...))
	}
	if len(f.Ages) > 0 {
		where = append(where, sqlbuilder.In("age", intsToArgs(f.Ages)...))
	}
	if f.Constituency != "" {
		where = append(where, sqlbuilder.Eq("constituency::text", f.Constituency))
	}

	return sqlbuilder.Select(table, electorColumns).
		Where(where...).
		OrderBy("sequence").
		Limit(SearchLimit).
		Build()
}

func buildHouseholdQuery(table string, q HouseholdQuery) (string, []interface{}) {
	names := make([]interface{}, len(q.Names))
	for i, n := range q.Names {
		names[i] = n
	}

	sel := sqlbuilder.Select(table, electorColumns).
		Where(sqlbuilder.Eq("door_no", q.DoorNo), sqlbuilder.In("relative_name", names...))
	if q.BoothNo != nil {
		sel.Where(sqlbuilder.Eq("booth_no", *q.BoothNo))
	}
	return sel.OrderBy("sequence").Limit(HouseholdLimit).Build()
}

func buildCandidateQuery(table string, q CandidateQuery) (string, []interface{}) {
	where := []sqlbuilder.Expr{sqlbuilder.ILike("name", q.Name)}
	if q.RelativeName != "" {
		where = append(where, sqlbuilder.ILike("relative_name", q.RelativeName))
	}

	sel := sqlbuilder.Select(table, electorColumns)
	if q.Scope == InFlagship {
		where = append(where, sqlbuilder.Eq("constituency::text", q.Flagship))
		if q.Age != nil {
			where = append(where, sqlbuilder.Eq("age", *q.Age))
		}
		sel.OrderBy("sequence")
	} else {
		where = append(where, sqlbuilder.NotEq("constituency::text", q.Flagship))
		sel.OrderBy("constituency", "sequence")
	}

	return sel.Where(where...).Limit(CandidateLimit).Build()
}

func intsToArgs(values []int) []interface{} {
	out := make([]interface{}, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}
