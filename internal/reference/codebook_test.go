package reference

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRelationText(t *testing.T) {
	tests := map[string]string{
		"த":       RelationFather,
		"தா":      RelationGrandfather,
		"F":       RelationFather,
		"tha":     RelationFather,
		"H":       RelationHusband,
		"க":       RelationHusband,
		"KA":      RelationHusband,
		"m":       RelationMother,
		"ம":       RelationWife,
		"W":       RelationWife,
		"அக்":     RelationElderSis,
		"thangai": RelationYoungerSis,
		"xyz":     "xyz",
		"":        "",
	}

	for code, want := range tests {
		assert.Equal(t, want, RelationText(code), "code %q", code)
	}
}

func TestGenderText(t *testing.T) {
	assert.Equal(t, GenderMale, GenderText("ஆ"))
	assert.Equal(t, GenderMale, GenderText("M"))
	assert.Equal(t, GenderMale, GenderText("Male"))
	assert.Equal(t, GenderFemale, GenderText("பெ"))
	assert.Equal(t, GenderFemale, GenderText("pen"))
	assert.Equal(t, "TG", GenderText("TG"))
}

func TestGenderToken(t *testing.T) {
	assert.Equal(t, "ஆ", GenderToken("M"))
	assert.Equal(t, "ஆ", GenderToken("m"))
	assert.Equal(t, "பெ", GenderToken("F"))
	assert.Equal(t, "பெ", GenderToken("X"))
}

func TestSpouseKind(t *testing.T) {
	for _, code := range []string{"H", "h", "க", "கா", "ka", "கணவர்"} {
		assert.Equal(t, SpouseHusband, SpouseKind(code), "code %q", code)
	}
	for _, code := range []string{"W", "ம", "ma", "மனைவி"} {
		assert.Equal(t, SpouseWife, SpouseKind(code), "code %q", code)
	}
	for _, code := range []string{"", "த", "F", "தாய்"} {
		assert.Equal(t, SpouseNone, SpouseKind(code), "code %q", code)
	}
}
