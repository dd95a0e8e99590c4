package models

import "strings"

// Elector is one row of the confirmed voter roll.
// Nullable columns use pointers to distinguish between empty values and NULL.
type Elector struct {
	ID           int64   `json:"id"`
	Sequence     *int    `json:"sequence,omitempty"`
	SerialNo     *int    `json:"serialNo,omitempty"`
	Name         string  `json:"name"`
	Relation     *string `json:"relation,omitempty"`
	RelativeName *string `json:"relativeName,omitempty"`
	Gender       *string `json:"gender,omitempty"`
	Age          *int    `json:"age,omitempty"`
	Epic         *string `json:"epic,omitempty"`
	BoothNo      *int    `json:"boothNo,omitempty"`
	DoorNo       *string `json:"doorNo,omitempty"`
	Constituency *string `json:"constituency,omitempty"`
}

// HasDoor reports whether the elector carries a usable door number.
// The roll stores missing door numbers both as NULL and as the text "null".
func (e Elector) HasDoor() bool {
	return ValidText(e.DoorNo)
}

// DisplayDoor returns the door number or "-" when it is unusable.
func (e Elector) DisplayDoor() string {
	if !e.HasDoor() {
		return "-"
	}
	return strings.TrimSpace(*e.DoorNo)
}

// DisplayEpic returns the EPIC number or "-" when it is unusable.
func (e Elector) DisplayEpic() string {
	if !ValidText(e.Epic) {
		return "-"
	}
	return strings.TrimSpace(*e.Epic)
}

// SequenceOrMax is used for ordering; rows without a sequence sort last.
func (e Elector) SequenceOrMax() int {
	if e.Sequence == nil {
		return int(^uint(0) >> 1)
	}
	return *e.Sequence
}

// ValidText reports whether s is non-nil, non-blank and not the literal "null".
func ValidText(s *string) bool {
	if s == nil {
		return false
	}
	v := strings.TrimSpace(*s)
	return v != "" && !strings.EqualFold(v, "null")
}

// StringValue dereferences s, returning "" for nil.
func StringValue(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
