package repository

import (
	"context"
	"testing"

	"github.com/manor5/electraSIR/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestSavedQueryRepository_CreateListGroups(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := NewSavedQueryRepository(db)
	ctx := context.Background()

	first, err := repo.Create(ctx, "booth 1", "SELECT * FROM t WHERE booth_no = 1", strPtr("booths"))
	require.NoError(t, err)
	second, err := repo.Create(ctx, "booth 2", "SELECT * FROM t WHERE booth_no = 2", strPtr("booths"))
	require.NoError(t, err)
	loose, err := repo.Create(ctx, "count", "SELECT COUNT(*) FROM t", nil)
	require.NoError(t, err)
	audit, err := repo.Create(ctx, "unmapped", "SELECT * FROM s WHERE NOT is_mapped", strPtr("audit"))
	require.NoError(t, err)

	assert.Equal(t, 0, first.DisplayOrder)
	assert.Equal(t, 1, second.DisplayOrder, "Expected new query at the end of its group")
	assert.Equal(t, 0, loose.DisplayOrder)

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 4)
	assert.Equal(t, audit.ID, list[0].ID)
	assert.Equal(t, first.ID, list[1].ID)
	assert.Equal(t, second.ID, list[2].ID)
	assert.Equal(t, loose.ID, list[3].ID, "Expected ungrouped queries last")

	groups, err := repo.Groups(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"audit", "booths"}, groups)
}

func TestSavedQueryRepository_UpdateReorderDelete(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := NewSavedQueryRepository(db)
	ctx := context.Background()

	a, err := repo.Create(ctx, "a", "SELECT 1", strPtr("g"))
	require.NoError(t, err)
	b, err := repo.Create(ctx, "b", "SELECT 2", strPtr("g"))
	require.NoError(t, err)

	updated, err := repo.Update(ctx, a.ID, "a2", "SELECT 11", strPtr("g"))
	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.Equal(t, "a2", updated.Name)
	assert.Equal(t, "SELECT 11", updated.Query)

	missing, err := repo.Update(ctx, 999999, "x", "SELECT 1", nil)
	require.NoError(t, err)
	assert.Nil(t, missing)

	require.NoError(t, repo.Reorder(ctx, []int64{b.ID, a.ID}))
	gotA, err := repo.Get(ctx, a.ID)
	require.NoError(t, err)
	gotB, err := repo.Get(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, gotA.DisplayOrder)
	assert.Equal(t, 0, gotB.DisplayOrder)

	ok, err := repo.SetOrder(ctx, a.ID, 7)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.Delete(ctx, a.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	gone, err := repo.Get(ctx, a.ID)
	require.NoError(t, err)
	assert.Nil(t, gone)

	ok, err = repo.Delete(ctx, a.ID)
	require.NoError(t, err)
	assert.False(t, ok)
}
