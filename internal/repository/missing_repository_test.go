package repository

import (
	"context"
	"fmt"
	"testing"

	"github.com/manor5/electraSIR/internal/database"
	"github.com/manor5/electraSIR/internal/models"
	"github.com/manor5/electraSIR/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildMissingUpdates(t *testing.T) {
	sql, args := buildMarkNoMatch("staging", 7).Build()
	assert.Equal(t, `UPDATE "staging" SET is_mapped = $1, best_match = $2 WHERE id = $3`, sql)
	assert.Equal(t, []interface{}{true, "5", int64(7)}, args)

	sql, args = buildMapTo("staging", 7, models.Mapping{
		Constituency: "167", BoothNo: 3, SerialNo: 44, Source: models.SourceOther,
	}).Build()
	assert.Equal(t, `UPDATE "staging" SET is_mapped = $1, best_match = $2, constituency = $3, booth_no = $4, serial_no = $5 WHERE id = $6`, sql)
	assert.Equal(t, []interface{}{true, "2", "167", 3, 44, int64(7)}, args)

	sql, args = buildUnmark("staging", 7).Build()
	assert.Equal(t, `UPDATE "staging" SET is_mapped = $1, best_match = NULL, constituency = NULL, booth_no = NULL, serial_no = NULL WHERE id = $2`, sql)
	assert.Equal(t, []interface{}{false, int64(7)}, args)
}

func seedMissing(t *testing.T, db *database.Database, n int) []int64 {
	t.Helper()
	ids := make([]int64, 0, n)
	for i := 0; i < n; i++ {
		var id int64
		err := db.Pool.QueryRow(context.Background(), `
			INSERT INTO `+testutil.MissingTable+` (localid, name, name_tam, age, is_mapped)
			VALUES ($1, 'Murugan', 'முருகன்', 40, false)
			RETURNING id
		`, fmt.Sprintf("L%03d", i)).Scan(&id)
		require.NoError(t, err)
		ids = append(ids, id)
	}
	return ids
}

func TestMissingRepository_ListUnmapped(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ids := seedMissing(t, db, 12)
	repo := NewMissingRepository(db, testutil.MissingTable)
	ctx := context.Background()

	page, total, err := repo.ListUnmapped(ctx, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(12), total)
	require.Len(t, page, 10)
	assert.Equal(t, ids[0], page[0].ID)

	page, _, err = repo.ListUnmapped(ctx, 10, 10)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, ids[11], page[1].ID)
}

func TestMissingRepository_MarkAndUnmark(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ids := seedMissing(t, db, 1)
	repo := NewMissingRepository(db, testutil.MissingTable)
	ctx := context.Background()

	ok, err := repo.MarkNoMatch(ctx, ids[0])
	require.NoError(t, err)
	require.True(t, ok)

	rec, err := repo.Get(ctx, ids[0])
	require.NoError(t, err)
	assert.True(t, rec.IsMapped)
	assert.Equal(t, models.BestMatchNone, *rec.BestMatch)

	_, total, err := repo.ListUnmapped(ctx, 10, 0)
	require.NoError(t, err)
	assert.Zero(t, total)

	ok, err = repo.Unmark(ctx, ids[0])
	require.NoError(t, err)
	require.True(t, ok)

	rec, err = repo.Get(ctx, ids[0])
	require.NoError(t, err)
	assert.False(t, rec.IsMapped)
	assert.Nil(t, rec.BestMatch)
	assert.Nil(t, rec.Constituency)
	assert.Nil(t, rec.BoothNo)
	assert.Nil(t, rec.SerialNo)
}

func TestMissingRepository_MapTo(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ids := seedMissing(t, db, 1)
	repo := NewMissingRepository(db, testutil.MissingTable)
	ctx := context.Background()

	ok, err := repo.MapTo(ctx, ids[0], models.Mapping{
		Constituency: "166", BoothNo: 12, SerialNo: 301, Source: models.SourceFlagship,
	})
	require.NoError(t, err)
	require.True(t, ok)

	rec, err := repo.Get(ctx, ids[0])
	require.NoError(t, err)
	assert.True(t, rec.IsMapped)
	assert.Equal(t, "1", *rec.BestMatch)
	assert.Equal(t, "166", *rec.Constituency)
	assert.Equal(t, 12, *rec.BoothNo)
	assert.Equal(t, 301, *rec.SerialNo)
}

func TestMissingRepository_UnknownID(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := NewMissingRepository(db, testutil.MissingTable)
	ctx := context.Background()

	ok, err := repo.MarkNoMatch(ctx, 999999)
	require.NoError(t, err)
	assert.False(t, ok)

	rec, err := repo.Get(ctx, 999999)
	require.NoError(t, err)
	assert.Nil(t, rec)
}
