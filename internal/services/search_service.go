package services

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/manor5/electraSIR/internal/logger"
	"github.com/manor5/electraSIR/internal/models"
	"github.com/manor5/electraSIR/internal/reference"
	"github.com/manor5/electraSIR/internal/repository"
	"golang.org/x/text/unicode/norm"
)

// Reference years used to turn a birth year into an age on the roll.
const (
	FlagshipReferenceYear = 2005
	DefaultReferenceYear  = 2002
)

// SearchRequest holds the optional fields of a roll search. Empty fields
// add no predicate.
type SearchRequest struct {
	Name         string
	RelativeName string
	Relation     string
	Gender       string
	Epic         string
	// Booths is a comma-separated list of booth numbers.
	Booths       string
	Constituency string
	BirthYear    int
}

// FamilyRequest describes the elector whose household is looked up.
type FamilyRequest struct {
	ID           int64
	Name         string
	Relation     string
	RelativeName string
	DoorNo       string
	BoothNo      *int
}

// SearchService defines voter search, household lookup and the usage
// counter.
type SearchService interface {
	// SearchElectors runs a multi-field roll search. Exact name matches are
	// returned first. Returns ErrInvalidBoothList for a malformed booth list.
	SearchElectors(ctx context.Context, req SearchRequest) ([]models.Elector, error)

	// FindFamily returns the other residents of the origin's door, same booth
	// first. Returns an empty slice when the origin has no usable door number.
	FindFamily(ctx context.Context, origin FamilyRequest) ([]models.Elector, error)

	// Stats returns the number of searches submitted so far.
	Stats(ctx context.Context) (int64, error)
}

type searchService struct {
	voters   repository.ElectorRepository
	counter  repository.CounterRepository
	flagship string
	log      *logger.Logger
}

// NewSearchService creates a new instance of SearchService.
func NewSearchService(voters repository.ElectorRepository, counter repository.CounterRepository, flagship string, log *logger.Logger) SearchService {
	return &searchService{
		voters:   voters,
		counter:  counter,
		flagship: flagship,
		log:      log,
	}
}

// ParseBoothList splits a comma-separated booth list. Blank items are
// ignored; any other non-integer item is an error.
func ParseBoothList(s string) ([]int, error) {
	var booths []int
	for _, item := range strings.Split(s, ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		n, err := strconv.Atoi(item)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrInvalidBoothList, item)
		}
		booths = append(booths, n)
	}
	return booths, nil
}

// normalize trims s and composes it to NFC so that Tamil text typed with
// decomposed vowel signs matches the stored form.
func normalize(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}

func (s *searchService) buildFilter(req SearchRequest) (repository.ElectorFilter, error) {
	filter := repository.ElectorFilter{
		Name:         normalize(req.Name),
		RelativeName: normalize(req.RelativeName),
		Relation:     normalize(req.Relation),
		Epic:         strings.TrimSpace(req.Epic),
	}

	booths, err := ParseBoothList(req.Booths)
	if err != nil {
		return filter, err
	}
	filter.Booths = booths

	if g := strings.TrimSpace(req.Gender); g != "" {
		filter.GenderToken = reference.GenderToken(g)
	}

	constituency := strings.TrimSpace(req.Constituency)
	if constituency != "" {
		filter.Constituency = constituency

		if req.BirthYear > 0 {
			ref := DefaultReferenceYear
			if constituency == s.flagship {
				ref = FlagshipReferenceYear
			}
			age := ref - req.BirthYear
			filter.Ages = []int{age - 1, age, age + 1}
		}
	}

	return filter, nil
}

// SearchElectors counts the submission, runs the search and moves exact
// name matches to the front.
func (s *searchService) SearchElectors(ctx context.Context, req SearchRequest) ([]models.Elector, error) {
	filter, err := s.buildFilter(req)
	if err != nil {
		s.log.Warn("Rejected search request", map[string]interface{}{
			"booths": req.Booths,
		})
		return nil, err
	}

	if _, err := s.counter.Increment(ctx); err != nil {
		s.log.Warn("Failed to increment operation counter", map[string]interface{}{
			"error": err.Error(),
		})
	}

	electors, err := s.voters.Search(ctx, filter)
	if err != nil {
		s.log.Error("Failed to search electors", err, map[string]interface{}{
			"name":         filter.Name,
			"booths":       filter.Booths,
			"constituency": filter.Constituency,
		})
		return nil, fmt.Errorf("failed to search electors: %w", err)
	}

	if filter.Name != "" {
		exactFirst(electors, filter.Name)
	}

	s.log.Info("Elector search completed", map[string]interface{}{
		"results": len(electors),
	})

	return electors, nil
}

// exactFirst stably moves rows whose trimmed name equals name, ignoring
// case, ahead of the rest.
func exactFirst(electors []models.Elector, name string) {
	want := strings.ToLower(name)
	sort.SliceStable(electors, func(i, j int) bool {
		ei := strings.ToLower(strings.TrimSpace(electors[i].Name)) == want
		ej := strings.ToLower(strings.TrimSpace(electors[j].Name)) == want
		return ei && !ej
	})
}

// FindFamily looks up the household of origin.
func (s *searchService) FindFamily(ctx context.Context, origin FamilyRequest) ([]models.Elector, error) {
	door := strings.TrimSpace(origin.DoorNo)
	relative := normalize(origin.RelativeName)
	name := normalize(origin.Name)

	if !models.ValidText(&door) || (relative == "" && name == "") {
		return []models.Elector{}, nil
	}

	var names []string
	if relative != "" {
		names = append(names, relative)
	}
	if name != "" {
		names = append(names, name)
	}

	rows, err := s.voters.FindHousehold(ctx, repository.HouseholdQuery{
		DoorNo:  door,
		Names:   names,
		BoothNo: origin.BoothNo,
	})
	if err != nil {
		s.log.Error("Failed to query household", err, map[string]interface{}{
			"elector_id": origin.ID,
			"door_no":    door,
		})
		return nil, fmt.Errorf("failed to query household: %w", err)
	}

	spouse := reference.SpouseKind(origin.Relation)
	members := make([]models.Elector, 0, len(rows))
	for _, row := range rows {
		if row.ID == origin.ID {
			continue
		}
		if spouse != reference.SpouseNone && row.Relation != nil &&
			reference.SpouseKind(*row.Relation) == spouse {
			continue
		}
		members = append(members, row)
	}

	sortHousehold(members, origin.BoothNo)

	s.log.Debug("Household lookup completed", map[string]interface{}{
		"elector_id": origin.ID,
		"members":    len(members),
	})

	return members, nil
}

// sortHousehold orders rows in the origin's booth first, then by sequence.
func sortHousehold(members []models.Elector, booth *int) {
	sameBooth := func(e models.Elector) bool {
		return booth != nil && e.BoothNo != nil && *e.BoothNo == *booth
	}
	sort.SliceStable(members, func(i, j int) bool {
		bi, bj := sameBooth(members[i]), sameBooth(members[j])
		if bi != bj {
			return bi
		}
		return members[i].SequenceOrMax() < members[j].SequenceOrMax()
	})
}

// Stats returns the operation counter.
func (s *searchService) Stats(ctx context.Context) (int64, error) {
	count, err := s.counter.Get(ctx)
	if err != nil {
		s.log.Error("Failed to read operation counter", err, nil)
		return 0, fmt.Errorf("failed to read operation counter: %w", err)
	}
	return count, nil
}
