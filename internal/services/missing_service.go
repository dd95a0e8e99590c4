package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/manor5/electraSIR/internal/logger"
	"github.com/manor5/electraSIR/internal/models"
	"github.com/manor5/electraSIR/internal/repository"
	"golang.org/x/sync/errgroup"
)

// Paging constants for the unmapped list.
const (
	DefaultPage      = 1
	DefaultPageLimit = 10
	MaxPageLimit     = 100
)

// AgeRetryOffset is added to the age when the first flagship candidate
// search comes back empty.
const AgeRetryOffset = 20

// CandidateRequest overrides the names and age searched for a staging row.
// Empty names fall back to the row's Tamil names.
type CandidateRequest struct {
	Name         string
	RelativeName string
	Age          *int
}

// MissingService defines reconciliation of staging rows against the roll.
type MissingService interface {
	// ListUnmapped returns one page of unmapped rows. Out-of-range paging
	// values are clamped to their defaults.
	ListUnmapped(ctx context.Context, page, limit int) (*models.MissingPage, error)

	// SearchCandidates runs the flagship and cross-constituency candidate
	// searches for the row with id. Returns ErrRecordNotFound when there is
	// no such row and ErrInvalidInput when no name is available.
	SearchCandidates(ctx context.Context, id int64, req CandidateRequest) (*models.CandidateSet, error)

	// MarkNoMatch resolves the row as having no roll match.
	MarkNoMatch(ctx context.Context, id int64) error

	// MapToCandidate links the row to a roll row.
	MapToCandidate(ctx context.Context, id int64, m models.Mapping) error

	// Unmark reverts the row to unmapped.
	Unmark(ctx context.Context, id int64) error
}

type missingService struct {
	missing  repository.MissingRepository
	match    repository.ElectorRepository
	flagship string
	log      *logger.Logger
}

// NewMissingService creates a new instance of MissingService. match is the
// roll table candidates are drawn from.
func NewMissingService(missing repository.MissingRepository, match repository.ElectorRepository, flagship string, log *logger.Logger) MissingService {
	return &missingService{
		missing:  missing,
		match:    match,
		flagship: flagship,
		log:      log,
	}
}

func (s *missingService) ListUnmapped(ctx context.Context, page, limit int) (*models.MissingPage, error) {
	if page < 1 {
		page = DefaultPage
	}
	if limit < 1 {
		limit = DefaultPageLimit
	}
	if limit > MaxPageLimit {
		limit = MaxPageLimit
	}

	records, total, err := s.missing.ListUnmapped(ctx, limit, (page-1)*limit)
	if err != nil {
		s.log.Error("Failed to list unmapped records", err, map[string]interface{}{
			"page":  page,
			"limit": limit,
		})
		return nil, fmt.Errorf("failed to list unmapped records: %w", err)
	}
	if records == nil {
		records = []models.MissingRecord{}
	}

	return &models.MissingPage{
		Records: records,
		Total:   total,
		Page:    page,
		Limit:   limit,
	}, nil
}

func (s *missingService) SearchCandidates(ctx context.Context, id int64, req CandidateRequest) (*models.CandidateSet, error) {
	record, err := s.missing.Get(ctx, id)
	if err != nil {
		s.log.Error("Failed to load missing record", err, map[string]interface{}{
			"record_id": id,
		})
		return nil, fmt.Errorf("failed to load missing record: %w", err)
	}
	if record == nil {
		return nil, ErrRecordNotFound
	}

	name := normalize(req.Name)
	if name == "" {
		name = normalize(models.StringValue(record.NameTamil))
	}
	relative := normalize(req.RelativeName)
	if relative == "" {
		relative = normalize(models.StringValue(record.RelNameTamil))
	}
	if name == "" {
		return nil, fmt.Errorf("%w: a name is required to search candidates", ErrInvalidInput)
	}

	age := positiveAge(req.Age)
	if age == nil {
		age = positiveAge(record.Age)
	}

	set := &models.CandidateSet{}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		rows, err := s.match.FindCandidates(gctx, repository.CandidateQuery{
			Name:         name,
			RelativeName: relative,
			Age:          age,
			Flagship:     s.flagship,
			Scope:        repository.InFlagship,
		})
		if err != nil {
			return fmt.Errorf("flagship candidates: %w", err)
		}

		if len(rows) == 0 && age != nil {
			adjusted := *age + AgeRetryOffset
			rows, err = s.match.FindCandidates(gctx, repository.CandidateQuery{
				Name:         name,
				RelativeName: relative,
				Age:          &adjusted,
				Flagship:     s.flagship,
				Scope:        repository.InFlagship,
			})
			if err != nil {
				return fmt.Errorf("flagship candidates at adjusted age: %w", err)
			}
			if len(rows) > 0 {
				set.AgeAdjusted = true
				set.AdjustedAge = &adjusted
				set.Message = fmt.Sprintf("பொருத்தமான பதிவு %d வயதில் கண்டறியப்பட்டது (அசல் வயது + 20)", adjusted)
			}
		}

		set.Flagship = nonNil(rows)
		return nil
	})

	g.Go(func() error {
		rows, err := s.match.FindCandidates(gctx, repository.CandidateQuery{
			Name:         name,
			RelativeName: relative,
			Flagship:     s.flagship,
			Scope:        repository.OutsideFlagship,
		})
		if err != nil {
			return fmt.Errorf("other candidates: %w", err)
		}
		set.Other = nonNil(rows)
		return nil
	})

	if err := g.Wait(); err != nil {
		s.log.Error("Candidate search failed", err, map[string]interface{}{
			"record_id": id,
		})
		return nil, fmt.Errorf("failed to search candidates: %w", err)
	}

	s.log.Info("Candidate search completed", map[string]interface{}{
		"record_id":    id,
		"flagship":     len(set.Flagship),
		"other":        len(set.Other),
		"age_adjusted": set.AgeAdjusted,
	})

	return set, nil
}

func nonNil(rows []models.Elector) []models.Elector {
	if rows == nil {
		return []models.Elector{}
	}
	return rows
}

func (s *missingService) MarkNoMatch(ctx context.Context, id int64) error {
	ok, err := s.missing.MarkNoMatch(ctx, id)
	return s.resolved("mark no match", id, ok, err)
}

func (s *missingService) MapToCandidate(ctx context.Context, id int64, m models.Mapping) error {
	m.Constituency = strings.TrimSpace(m.Constituency)
	if m.Constituency == "" {
		return fmt.Errorf("%w: constituency is required", ErrInvalidInput)
	}
	if m.Source != models.SourceFlagship && m.Source != models.SourceOther {
		return fmt.Errorf("%w: unknown candidate source %q", ErrInvalidInput, m.Source)
	}

	ok, err := s.missing.MapTo(ctx, id, m)
	return s.resolved("map to candidate", id, ok, err)
}

func (s *missingService) Unmark(ctx context.Context, id int64) error {
	ok, err := s.missing.Unmark(ctx, id)
	return s.resolved("unmark", id, ok, err)
}

// resolved turns a single-row update outcome into a service error.
func (s *missingService) resolved(action string, id int64, ok bool, err error) error {
	if err != nil {
		s.log.Error("Failed to update missing record", err, map[string]interface{}{
			"action":    action,
			"record_id": id,
		})
		return fmt.Errorf("failed to %s: %w", action, err)
	}
	if !ok {
		return ErrRecordNotFound
	}

	s.log.Info("Missing record updated", map[string]interface{}{
		"action":    action,
		"record_id": id,
	})
	return nil
}

// positiveAge treats a missing or zero age as unknown.
func positiveAge(age *int) *int {
	if age == nil || *age <= 0 {
		return nil
	}
	return age
}
