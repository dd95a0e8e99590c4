package models

// Best-match tags written to the staging table when a record is resolved.
const (
	BestMatchFlagship = "1" // matched a roll row in the flagship constituency
	BestMatchOther    = "2" // matched a roll row in another constituency
	BestMatchNone     = "5" // operator confirmed that no roll row exists
)

// CandidateSource identifies which candidate list a mapping was chosen from.
type CandidateSource string

const (
	SourceFlagship CandidateSource = "flagship"
	SourceOther    CandidateSource = "other"
)

// BestMatch returns the tag persisted for a mapping chosen from s.
func (s CandidateSource) BestMatch() string {
	if s == SourceFlagship {
		return BestMatchFlagship
	}
	return BestMatchOther
}

// MissingRecord is a staging row awaiting reconciliation with the roll.
type MissingRecord struct {
	ID           int64   `json:"id"`
	LocalID      *string `json:"localId,omitempty"`
	AC           *string `json:"ac,omitempty"`
	Part         *string `json:"part,omitempty"`
	Serial       *string `json:"serial,omitempty"`
	Epic         *string `json:"epic,omitempty"`
	Name         *string `json:"name,omitempty"`
	Gender       *string `json:"gender,omitempty"`
	RelName      *string `json:"relName,omitempty"`
	RlnType      *string `json:"rlnType,omitempty"`
	Age          *int    `json:"age,omitempty"`
	NameTamil    *string `json:"nameTamil,omitempty"`
	RelNameTamil *string `json:"relNameTamil,omitempty"`
	IsCompleted  *bool   `json:"isCompleted,omitempty"`
	IsMapped     bool    `json:"isMapped"`
	Constituency *string `json:"constituency,omitempty"`
	BoothNo      *int    `json:"boothNo,omitempty"`
	SerialNo     *int    `json:"serialNo,omitempty"`
	BestMatch    *string `json:"bestMatch,omitempty"`
}

// MissingPage is one page of unmapped staging rows.
type MissingPage struct {
	Records []MissingRecord `json:"records"`
	Total   int64           `json:"total"`
	Page    int             `json:"page"`
	Limit   int             `json:"limit"`
}

// CandidateSet holds both candidate lists for one staging row.
type CandidateSet struct {
	Flagship    []Elector `json:"flagship"`
	Other       []Elector `json:"other"`
	AgeAdjusted bool      `json:"ageAdjusted"`
	AdjustedAge *int      `json:"adjustedAge,omitempty"`
	Message     string    `json:"message,omitempty"`
}

// Mapping links a staging row to a roll row.
type Mapping struct {
	Constituency string          `json:"constituency"`
	BoothNo      int             `json:"boothNo"`
	SerialNo     int             `json:"serialNo"`
	Source       CandidateSource `json:"source"`
}
