// Package reference holds the static lookup data shipped with the service:
// districts, constituencies, genders and the relation/gender codebooks used
// by the roll.
package reference

import (
	_ "embed"
	"fmt"
	"strconv"
	"strings"

	"github.com/goccy/go-yaml"
)

//go:embed catalog.yaml
var catalogYAML []byte

// District is an administrative district.
type District struct {
	ID   int    `yaml:"id" json:"id"`
	Name string `yaml:"name" json:"name"`
}

// Constituency is an assembly constituency within a district.
type Constituency struct {
	ID         int    `yaml:"id" json:"id"`
	Name       string `yaml:"name" json:"name"`
	DistrictID int    `yaml:"districtId" json:"districtId"`
}

// Gender is a selectable gender option.
type Gender struct {
	ID    string `yaml:"id" json:"id"`
	Label string `yaml:"label" json:"label"`
}

// Catalog is the parsed reference data.
type Catalog struct {
	Districts      []District     `yaml:"districts" json:"districts"`
	Constituencies []Constituency `yaml:"constituencies" json:"constituencies"`
	Genders        []Gender       `yaml:"genders" json:"genders"`
}

// Load parses the embedded catalog.
func Load() (*Catalog, error) {
	return Parse(catalogYAML)
}

// Parse decodes a catalog document and checks that every constituency
// belongs to a known district.
func Parse(data []byte) (*Catalog, error) {
	var cat Catalog
	if err := yaml.Unmarshal(data, &cat); err != nil {
		return nil, fmt.Errorf("failed to parse reference catalog: %w", err)
	}
	for _, c := range cat.Constituencies {
		if _, ok := cat.District(c.DistrictID); !ok {
			return nil, fmt.Errorf("constituency %d references unknown district %d", c.ID, c.DistrictID)
		}
	}
	return &cat, nil
}

// District looks a district up by id.
func (c *Catalog) District(id int) (District, bool) {
	for _, d := range c.Districts {
		if d.ID == id {
			return d, true
		}
	}
	return District{}, false
}

// ConstituenciesOf lists the constituencies of a district.
func (c *Catalog) ConstituenciesOf(districtID int) []Constituency {
	out := make([]Constituency, 0)
	for _, con := range c.Constituencies {
		if con.DistrictID == districtID {
			out = append(out, con)
		}
	}
	return out
}

// FindDistrict resolves a route segment, either a numeric id or a
// case-insensitive name.
func (c *Catalog) FindDistrict(key string) (District, bool) {
	key = strings.TrimSpace(key)
	if id, err := strconv.Atoi(key); err == nil {
		return c.District(id)
	}
	for _, d := range c.Districts {
		if strings.EqualFold(d.Name, key) {
			return d, true
		}
	}
	return District{}, false
}

// Resolve maps a district/constituency route pair to catalog entries. The
// constituency must belong to the district.
func (c *Catalog) Resolve(districtKey, constituencyKey string) (District, Constituency, bool) {
	d, ok := c.FindDistrict(districtKey)
	if !ok {
		return District{}, Constituency{}, false
	}

	constituencyKey = strings.TrimSpace(constituencyKey)
	id, idErr := strconv.Atoi(constituencyKey)
	for _, con := range c.ConstituenciesOf(d.ID) {
		if (idErr == nil && con.ID == id) || strings.EqualFold(con.Name, constituencyKey) {
			return d, con, true
		}
	}
	return District{}, Constituency{}, false
}
