package sqlbuilder

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, `100\%`, EscapeLike("100%"))
	assert.Equal(t, `a\_b`, EscapeLike("a_b"))
	assert.Equal(t, `c:\\x`, EscapeLike(`c:\x`))
	assert.Equal(t, "முருகன்", EscapeLike("முருகன்"))
}

func TestQuoteTable(t *testing.T) {
	assert.Equal(t, `"trichy2_import"`, QuoteTable("trichy2_import"))
	assert.Equal(t, `"public"."saved_queries"`, QuoteTable("public.saved_queries"))
	assert.Equal(t, `"bad""name"`, QuoteTable(`bad"name`))
}

func TestSelect_NoPredicates(t *testing.T) {
	sql, args := Select("voters").OrderBy("sequence").Limit(1200).Build()

	assert.Equal(t, `SELECT * FROM "voters" ORDER BY sequence LIMIT 1200`, sql)
	assert.Empty(t, args)
}

func TestSelect_Predicates(t *testing.T) {
	sql, args := Select("voters", "id", "name").
		Where(ILike("name", "raja"), In("booth_no", 1, 2, 3)).
		Where(Eq("constituency", 166)).
		OrderBy("sequence").
		Limit(10).
		Offset(20).
		Build()

	assert.Equal(t,
		`SELECT id, name FROM "voters" WHERE name ILIKE $1 AND booth_no IN ($2, $3, $4) AND constituency = $5 ORDER BY sequence LIMIT 10 OFFSET 20`,
		sql)
	assert.Equal(t, []interface{}{"%raja%", 1, 2, 3, 166}, args)
}

func TestIn_SingleValueIsEq(t *testing.T) {
	sql, args := Select("voters").Where(In("booth_no", 7)).Build()

	assert.Equal(t, `SELECT * FROM "voters" WHERE booth_no = $1`, sql)
	assert.Equal(t, []interface{}{7}, args)
}

func TestIn_Empty(t *testing.T) {
	sql, args := Select("voters").Where(In("booth_no")).Build()

	assert.Equal(t, `SELECT * FROM "voters" WHERE FALSE`, sql)
	assert.Empty(t, args)
}

func TestAndOr(t *testing.T) {
	sql, args := Select("t").Where(Or(Eq("a", 1), And(NotEq("b", 2), IsNull("c")))).Build()

	assert.Equal(t, `SELECT * FROM "t" WHERE (a = $1 OR (b <> $2 AND c IS NULL))`, sql)
	assert.Equal(t, []interface{}{1, 2}, args)

	sql, _ = Select("t").Where(Or()).Build()
	assert.Equal(t, `SELECT * FROM "t" WHERE FALSE`, sql)
	sql, _ = Select("t").Where(And()).Build()
	assert.Equal(t, `SELECT * FROM "t" WHERE TRUE`, sql)
}

func TestCount(t *testing.T) {
	sql, args := Select("staging", "id").Where(Eq("is_mapped", false)).OrderBy("id").Limit(10).Count()

	assert.Equal(t, `SELECT COUNT(*) FROM "staging" WHERE is_mapped = $1`, sql)
	assert.Equal(t, []interface{}{false}, args)
}

func TestUpdate(t *testing.T) {
	sql, args := Update("staging").
		Set("is_mapped", false).
		SetNull("best_match").
		Set("booth_no", 12).
		Where(Eq("id", int64(4))).
		Build()

	assert.Equal(t, `UPDATE "staging" SET is_mapped = $1, best_match = NULL, booth_no = $2 WHERE id = $3`, sql)
	assert.Equal(t, []interface{}{false, 12, int64(4)}, args)
}
