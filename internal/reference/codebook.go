package reference

import "strings"

// Relation texts used on the roll.
const (
	RelationFather      = "தந்தை"
	RelationGrandfather = "தாத்தா"
	RelationHusband     = "கணவர்"
	RelationMother      = "தாய்"
	RelationWife        = "மனைவி"
	RelationElderBro    = "அண்ணன்"
	RelationYoungerBro  = "தம்பி"
	RelationElderSis    = "அக்கா"
	RelationYoungerSis  = "தங்கை"

	GenderMale   = "ஆண்"
	GenderFemale = "பெண்"
)

// Relation codes appear in Tamil abbreviations and transliterated forms.
// Keys are lowercase.
var relationCodes = map[string]string{
	"த":       RelationFather,
	"தா":      RelationGrandfather,
	"f":       RelationFather,
	"tha":     RelationFather,
	"க":       RelationHusband,
	"h":       RelationHusband,
	"கா":      RelationHusband,
	"ka":      RelationHusband,
	"தய்":     RelationMother,
	"thay":    RelationMother,
	"m":       RelationMother,
	"ம":       RelationWife,
	"ma":      RelationWife,
	"w":       RelationWife,
	"அ":       RelationElderBro,
	"an":      RelationElderBro,
	"தம்":     RelationYoungerBro,
	"tham":    RelationYoungerBro,
	"அக்":     RelationElderSis,
	"akka":    RelationElderSis,
	"தங்":     RelationYoungerSis,
	"thangai": RelationYoungerSis,
}

var genderCodes = map[string]string{
	"ஆ":      GenderMale,
	"aa":     GenderMale,
	"aan":    GenderMale,
	"m":      GenderMale,
	"male":   GenderMale,
	"பெ":     GenderFemale,
	"pe":     GenderFemale,
	"pen":    GenderFemale,
	"f":      GenderFemale,
	"female": GenderFemale,
}

// Roll tokens stored in the gender column for the two-letter form codes.
var genderTokens = map[string]string{
	"M": "ஆ",
	"F": "பெ",
}

func normalizeCode(code string) string {
	return strings.ToLower(strings.TrimSpace(code))
}

// RelationText returns the display text for a relation code, or the code
// itself when it is not in the codebook.
func RelationText(code string) string {
	if text, ok := relationCodes[normalizeCode(code)]; ok {
		return text
	}
	return code
}

// GenderText returns the display text for a gender code, or the code itself
// when it is not in the codebook.
func GenderText(code string) string {
	if text, ok := genderCodes[normalizeCode(code)]; ok {
		return text
	}
	return code
}

// GenderToken maps a form gender code (M or F) to the token stored on the
// roll. Any other code maps to the female token.
func GenderToken(code string) string {
	if token, ok := genderTokens[strings.ToUpper(strings.TrimSpace(code))]; ok {
		return token
	}
	return genderTokens["F"]
}

// IsHusband reports whether a relation code or text denotes a husband.
func IsHusband(relation string) bool {
	return RelationText(relation) == RelationHusband || strings.TrimSpace(relation) == RelationHusband
}

// IsWife reports whether a relation code or text denotes a wife.
func IsWife(relation string) bool {
	return RelationText(relation) == RelationWife || strings.TrimSpace(relation) == RelationWife
}

// Spouse kinds returned by SpouseKind.
const (
	SpouseNone = iota
	SpouseHusband
	SpouseWife
)

// SpouseKind classifies a relation as husband, wife or neither.
func SpouseKind(relation string) int {
	switch {
	case IsHusband(relation):
		return SpouseHusband
	case IsWife(relation):
		return SpouseWife
	default:
		return SpouseNone
	}
}
