package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/manor5/electraSIR/internal/console"
	"github.com/manor5/electraSIR/internal/logger"
	"github.com/manor5/electraSIR/internal/models"
	"github.com/manor5/electraSIR/internal/repository"
)

// ConsoleService defines the administrative SQL console. Every method that
// runs or reveals SQL takes the caller's role; admin-only rules are enforced
// here so that every entry point shares them.
type ConsoleService interface {
	// Execute runs sql. Blocked statements are rejected for every role with
	// console.ErrBlockedKeyword; statements that are not reads require admin.
	// Database failures are returned as *ExecutionError.
	Execute(ctx context.Context, role models.Role, sql string) (*models.QueryResult, error)

	// Risk classifies sql for display.
	Risk(sql string) console.Risk

	// Generate renders a query-builder statement. EXPORT without columns
	// uses every column of the table.
	Generate(ctx context.Context, req console.GenerateRequest) (string, error)

	Tables(ctx context.Context) ([]string, error)
	Columns(ctx context.Context, table string) ([]repository.ColumnInfo, error)

	// ListSaved returns every saved query. The SQL text is omitted unless
	// role is admin.
	ListSaved(ctx context.Context, role models.Role) ([]models.SavedQuery, error)
	SavedGroups(ctx context.Context) ([]string, error)

	// GetSaved loads one saved query including its SQL text. Requires admin.
	GetSaved(ctx context.Context, role models.Role, id int64) (*models.SavedQuery, error)

	CreateSaved(ctx context.Context, role models.Role, name, query string, group *string) (*models.SavedQuery, error)
	UpdateSaved(ctx context.Context, role models.Role, id int64, name, query string, group *string) (*models.SavedQuery, error)
	SetSavedOrder(ctx context.Context, role models.Role, id int64, order int) error

	// MoveSaved places the query with id at the position of targetID and
	// renumbers the group. Returns ErrCrossGroupMove when the two queries
	// belong to different groups.
	MoveSaved(ctx context.Context, role models.Role, id, targetID int64) ([]models.SavedQuery, error)

	DeleteSaved(ctx context.Context, role models.Role, id int64) error

	// RunSaved executes a saved query under the same guard as Execute and
	// returns the query alongside its result.
	RunSaved(ctx context.Context, role models.Role, id int64) (*models.SavedQuery, *models.QueryResult, error)

	// Import inserts the rows of an uploaded CSV file into table.
	// Requires admin.
	Import(ctx context.Context, role models.Role, table, content string) (*models.ImportResult, error)
}

type consoleService struct {
	console repository.ConsoleRepository
	saved   repository.SavedQueryRepository
	log     *logger.Logger
}

// NewConsoleService creates a new instance of ConsoleService.
func NewConsoleService(consoleRepo repository.ConsoleRepository, saved repository.SavedQueryRepository, log *logger.Logger) ConsoleService {
	return &consoleService{
		console: consoleRepo,
		saved:   saved,
		log:     log,
	}
}

func requireAdmin(role models.Role, action string) error {
	if !role.Allows(models.RoleAdmin) {
		return fmt.Errorf("%w: %s requires the admin role", ErrForbidden, action)
	}
	return nil
}

func (s *consoleService) Execute(ctx context.Context, role models.Role, sql string) (*models.QueryResult, error) {
	read, err := console.Check(sql)
	if err != nil {
		s.log.Warn("Rejected console statement", map[string]interface{}{
			"role":  role,
			"error": err.Error(),
		})
		return nil, err
	}
	if !read {
		if err := requireAdmin(role, "modifying statements"); err != nil {
			s.log.Warn("Rejected console statement", map[string]interface{}{
				"role": role,
			})
			return nil, err
		}
	}

	readOnly := !role.Allows(models.RoleAdmin)
	result, err := s.console.Execute(ctx, sql, readOnly)
	if err != nil {
		s.log.Warn("Console statement failed", map[string]interface{}{
			"role":  role,
			"error": err.Error(),
		})
		return nil, &ExecutionError{Err: err}
	}

	s.log.Info("Console statement executed", map[string]interface{}{
		"role":      role,
		"read":      read,
		"row_count": result.RowCount,
		"command":   result.Command,
	})
	return result, nil
}

func (s *consoleService) Risk(sql string) console.Risk {
	return console.Classify(sql)
}

func (s *consoleService) Generate(ctx context.Context, req console.GenerateRequest) (string, error) {
	if req.Kind == console.KindExport && len(req.Columns) == 0 && console.ValidIdentifier(req.Table) {
		cols, err := s.console.ListColumns(ctx, req.Table)
		if err != nil {
			return "", fmt.Errorf("failed to list columns of %s: %w", req.Table, err)
		}
		req.TableColumns = make([]string, len(cols))
		for i, c := range cols {
			req.TableColumns[i] = c.Name
		}
	}
	return console.Generate(req)
}

func (s *consoleService) Tables(ctx context.Context) ([]string, error) {
	tables, err := s.console.ListTables(ctx)
	if err != nil {
		s.log.Error("Failed to list tables", err, nil)
		return nil, fmt.Errorf("failed to list tables: %w", err)
	}
	return tables, nil
}

func (s *consoleService) Columns(ctx context.Context, table string) ([]repository.ColumnInfo, error) {
	if !console.ValidIdentifier(table) {
		return nil, fmt.Errorf("%w: %q", console.ErrInvalidIdentifier, table)
	}
	cols, err := s.console.ListColumns(ctx, table)
	if err != nil {
		s.log.Error("Failed to list columns", err, map[string]interface{}{
			"table": table,
		})
		return nil, fmt.Errorf("failed to list columns: %w", err)
	}
	return cols, nil
}

func (s *consoleService) ListSaved(ctx context.Context, role models.Role) ([]models.SavedQuery, error) {
	queries, err := s.saved.List(ctx)
	if err != nil {
		s.log.Error("Failed to list saved queries", err, nil)
		return nil, fmt.Errorf("failed to list saved queries: %w", err)
	}
	if !role.Allows(models.RoleAdmin) {
		for i := range queries {
			queries[i].Query = ""
		}
	}
	return queries, nil
}

func (s *consoleService) SavedGroups(ctx context.Context) ([]string, error) {
	groups, err := s.saved.Groups(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list saved query groups: %w", err)
	}
	return groups, nil
}

func (s *consoleService) getSaved(ctx context.Context, id int64) (*models.SavedQuery, error) {
	q, err := s.saved.Get(ctx, id)
	if err != nil {
		s.log.Error("Failed to load saved query", err, map[string]interface{}{
			"query_id": id,
		})
		return nil, fmt.Errorf("failed to load saved query: %w", err)
	}
	if q == nil {
		return nil, ErrSavedQueryNotFound
	}
	return q, nil
}

func (s *consoleService) GetSaved(ctx context.Context, role models.Role, id int64) (*models.SavedQuery, error) {
	if err := requireAdmin(role, "loading saved queries"); err != nil {
		return nil, err
	}
	return s.getSaved(ctx, id)
}

func cleanGroup(group *string) *string {
	if group == nil {
		return nil
	}
	g := strings.TrimSpace(*group)
	if g == "" {
		return nil
	}
	return &g
}

func validateSaved(name, query string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if strings.TrimSpace(query) == "" {
		return fmt.Errorf("%w: query is required", ErrInvalidInput)
	}
	return nil
}

func (s *consoleService) CreateSaved(ctx context.Context, role models.Role, name, query string, group *string) (*models.SavedQuery, error) {
	if err := requireAdmin(role, "saving queries"); err != nil {
		return nil, err
	}
	if err := validateSaved(name, query); err != nil {
		return nil, err
	}

	q, err := s.saved.Create(ctx, strings.TrimSpace(name), query, cleanGroup(group))
	if err != nil {
		s.log.Error("Failed to save query", err, map[string]interface{}{
			"name": name,
		})
		return nil, fmt.Errorf("failed to save query: %w", err)
	}

	s.log.Info("Saved query created", map[string]interface{}{
		"query_id": q.ID,
		"name":     q.Name,
	})
	return q, nil
}

func (s *consoleService) UpdateSaved(ctx context.Context, role models.Role, id int64, name, query string, group *string) (*models.SavedQuery, error) {
	if err := requireAdmin(role, "editing saved queries"); err != nil {
		return nil, err
	}
	if err := validateSaved(name, query); err != nil {
		return nil, err
	}

	q, err := s.saved.Update(ctx, id, strings.TrimSpace(name), query, cleanGroup(group))
	if err != nil {
		s.log.Error("Failed to update saved query", err, map[string]interface{}{
			"query_id": id,
		})
		return nil, fmt.Errorf("failed to update saved query: %w", err)
	}
	if q == nil {
		return nil, ErrSavedQueryNotFound
	}
	return q, nil
}

func (s *consoleService) SetSavedOrder(ctx context.Context, role models.Role, id int64, order int) error {
	if err := requireAdmin(role, "ordering saved queries"); err != nil {
		return err
	}
	if order < 0 {
		return fmt.Errorf("%w: display order must not be negative", ErrInvalidInput)
	}

	ok, err := s.saved.SetOrder(ctx, id, order)
	if err != nil {
		return fmt.Errorf("failed to set display order: %w", err)
	}
	if !ok {
		return ErrSavedQueryNotFound
	}
	return nil
}

func (s *consoleService) MoveSaved(ctx context.Context, role models.Role, id, targetID int64) ([]models.SavedQuery, error) {
	if err := requireAdmin(role, "ordering saved queries"); err != nil {
		return nil, err
	}

	all, err := s.saved.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list saved queries: %w", err)
	}

	moved, target := -1, -1
	for i, q := range all {
		if q.ID == id {
			moved = i
		}
		if q.ID == targetID {
			target = i
		}
	}
	if moved < 0 || target < 0 {
		return nil, ErrSavedQueryNotFound
	}
	if !all[moved].SameGroup(all[target]) {
		return nil, ErrCrossGroupMove
	}

	group := make([]models.SavedQuery, 0)
	for _, q := range all {
		if q.SameGroup(all[moved]) {
			group = append(group, q)
		}
	}
	group = moveItem(group, id, targetID)

	ids := make([]int64, len(group))
	for i := range group {
		ids[i] = group[i].ID
		group[i].DisplayOrder = i
	}
	if err := s.saved.Reorder(ctx, ids); err != nil {
		s.log.Error("Failed to reorder saved queries", err, map[string]interface{}{
			"query_id":  id,
			"target_id": targetID,
		})
		return nil, fmt.Errorf("failed to reorder saved queries: %w", err)
	}

	s.log.Info("Saved query moved", map[string]interface{}{
		"query_id":  id,
		"target_id": targetID,
		"group":     models.StringValue(all[moved].GroupName),
	})
	return group, nil
}

// moveItem removes the query with id and reinserts it at the index the
// query with targetID held before the removal.
func moveItem(group []models.SavedQuery, id, targetID int64) []models.SavedQuery {
	from, to := -1, -1
	for i, q := range group {
		if q.ID == id {
			from = i
		}
		if q.ID == targetID {
			to = i
		}
	}
	if from < 0 || to < 0 || from == to {
		return group
	}

	item := group[from]
	rest := append(append([]models.SavedQuery{}, group[:from]...), group[from+1:]...)
	out := make([]models.SavedQuery, 0, len(group))
	out = append(out, rest[:to]...)
	out = append(out, item)
	out = append(out, rest[to:]...)
	return out
}

func (s *consoleService) DeleteSaved(ctx context.Context, role models.Role, id int64) error {
	if err := requireAdmin(role, "deleting saved queries"); err != nil {
		return err
	}
	ok, err := s.saved.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete saved query: %w", err)
	}
	if !ok {
		return ErrSavedQueryNotFound
	}

	s.log.Info("Saved query deleted", map[string]interface{}{
		"query_id": id,
	})
	return nil
}

func (s *consoleService) RunSaved(ctx context.Context, role models.Role, id int64) (*models.SavedQuery, *models.QueryResult, error) {
	q, err := s.getSaved(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	result, err := s.Execute(ctx, role, q.Query)
	if err != nil {
		return nil, nil, err
	}
	return q, result, nil
}

func (s *consoleService) Import(ctx context.Context, role models.Role, table, content string) (*models.ImportResult, error) {
	if err := requireAdmin(role, "importing data"); err != nil {
		return nil, err
	}
	table = strings.TrimSpace(table)
	if table == "" {
		return nil, console.ErrTableRequired
	}
	if !console.ValidIdentifier(table) {
		return nil, fmt.Errorf("%w: %q", console.ErrInvalidIdentifier, table)
	}

	upload, err := console.ParseUpload(content)
	if err != nil {
		return nil, err
	}
	upload = upload.WithoutID()
	if len(upload.Columns) == 0 {
		return nil, fmt.Errorf("%w: no importable columns", ErrInvalidInput)
	}
	for _, col := range upload.Columns {
		if !console.ValidIdentifier(col) {
			return nil, fmt.Errorf("%w: %q", console.ErrInvalidIdentifier, col)
		}
	}

	result, err := s.console.ImportRows(ctx, table, upload.Columns, upload.Rows)
	if err != nil {
		s.log.Error("CSV import failed", err, map[string]interface{}{
			"table": table,
			"rows":  len(upload.Rows),
		})
		return nil, &ExecutionError{Err: err}
	}
	result.Skipped = upload.Skipped
	result.Total += upload.Skipped

	s.log.Info("CSV import completed", map[string]interface{}{
		"table":    table,
		"inserted": result.Inserted,
		"failed":   result.Failed,
		"skipped":  result.Skipped,
	})
	return result, nil
}
