package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestElectorDoor(t *testing.T) {
	tests := []struct {
		name    string
		door    *string
		valid   bool
		display string
	}{
		{"nil", nil, false, "-"},
		{"empty", strPtr(""), false, "-"},
		{"blank", strPtr("   "), false, "-"},
		{"null text", strPtr("null"), false, "-"},
		{"NULL text", strPtr("NULL"), false, "-"},
		{"value", strPtr(" 12/4 "), true, "12/4"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := Elector{DoorNo: tt.door}
			assert.Equal(t, tt.valid, e.HasDoor())
			assert.Equal(t, tt.display, e.DisplayDoor())
		})
	}
}

func TestSequenceOrMax(t *testing.T) {
	seq := 4
	assert.Equal(t, 4, Elector{Sequence: &seq}.SequenceOrMax())
	assert.Greater(t, Elector{}.SequenceOrMax(), 1<<30)
}

func TestCandidateSourceBestMatch(t *testing.T) {
	assert.Equal(t, BestMatchFlagship, SourceFlagship.BestMatch())
	assert.Equal(t, BestMatchOther, SourceOther.BestMatch())
}

func TestSavedQuerySameGroup(t *testing.T) {
	a := SavedQuery{GroupName: strPtr("booths")}
	b := SavedQuery{GroupName: strPtr("booths")}
	c := SavedQuery{GroupName: strPtr("audit")}
	ungrouped := SavedQuery{}

	assert.True(t, a.SameGroup(b))
	assert.False(t, a.SameGroup(c))
	assert.False(t, a.SameGroup(ungrouped))
	assert.True(t, ungrouped.SameGroup(SavedQuery{}))
}

func TestRoleAllows(t *testing.T) {
	assert.True(t, RoleAdmin.Allows(RoleOperator))
	assert.True(t, RoleAdmin.Allows(RoleAdmin))
	assert.True(t, RoleOperator.Allows(RoleViewer))
	assert.False(t, RoleOperator.Allows(RoleAdmin))
	assert.False(t, RoleViewer.Allows(RoleOperator))
	assert.False(t, Role("root").Allows(RoleViewer))
}

func TestParseRole(t *testing.T) {
	r, err := ParseRole(" Admin ")
	require.NoError(t, err)
	assert.Equal(t, RoleAdmin, r)

	_, err = ParseRole("superuser")
	assert.Error(t, err)
}

func TestSessionExpired(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	s := Session{ExpiresAt: now.Add(time.Minute)}

	assert.False(t, s.Expired(now))
	assert.True(t, s.Expired(now.Add(time.Minute)))
}
