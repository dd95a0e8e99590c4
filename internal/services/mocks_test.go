package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/manor5/electraSIR/internal/models"
	"github.com/manor5/electraSIR/internal/repository"
	"github.com/stretchr/testify/mock"
)

// MockElectorRepository is a mock implementation of ElectorRepository for testing
type MockElectorRepository struct {
	mock.Mock
}

func (m *MockElectorRepository) Search(ctx context.Context, filter repository.ElectorFilter) ([]models.Elector, error) {
	args := m.Called(ctx, filter)
	rows, _ := args.Get(0).([]models.Elector)
	return rows, args.Error(1)
}

func (m *MockElectorRepository) FindHousehold(ctx context.Context, q repository.HouseholdQuery) ([]models.Elector, error) {
	args := m.Called(ctx, q)
	rows, _ := args.Get(0).([]models.Elector)
	return rows, args.Error(1)
}

func (m *MockElectorRepository) FindCandidates(ctx context.Context, q repository.CandidateQuery) ([]models.Elector, error) {
	args := m.Called(ctx, q)
	rows, _ := args.Get(0).([]models.Elector)
	return rows, args.Error(1)
}

// MockCounterRepository is a mock implementation of CounterRepository for testing
type MockCounterRepository struct {
	mock.Mock
}

func (m *MockCounterRepository) Increment(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCounterRepository) Get(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// MockMissingRepository is a mock implementation of MissingRepository for testing
type MockMissingRepository struct {
	mock.Mock
}

func (m *MockMissingRepository) ListUnmapped(ctx context.Context, limit, offset int) ([]models.MissingRecord, int64, error) {
	args := m.Called(ctx, limit, offset)
	rows, _ := args.Get(0).([]models.MissingRecord)
	return rows, args.Get(1).(int64), args.Error(2)
}

func (m *MockMissingRepository) Get(ctx context.Context, id int64) (*models.MissingRecord, error) {
	args := m.Called(ctx, id)
	rec, _ := args.Get(0).(*models.MissingRecord)
	return rec, args.Error(1)
}

func (m *MockMissingRepository) MarkNoMatch(ctx context.Context, id int64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockMissingRepository) MapTo(ctx context.Context, id int64, mapping models.Mapping) (bool, error) {
	args := m.Called(ctx, id, mapping)
	return args.Bool(0), args.Error(1)
}

func (m *MockMissingRepository) Unmark(ctx context.Context, id int64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

// MockSavedQueryRepository is a mock implementation of SavedQueryRepository for testing
type MockSavedQueryRepository struct {
	mock.Mock
}

func (m *MockSavedQueryRepository) List(ctx context.Context) ([]models.SavedQuery, error) {
	args := m.Called(ctx)
	rows, _ := args.Get(0).([]models.SavedQuery)
	return rows, args.Error(1)
}

func (m *MockSavedQueryRepository) Groups(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	groups, _ := args.Get(0).([]string)
	return groups, args.Error(1)
}

func (m *MockSavedQueryRepository) Get(ctx context.Context, id int64) (*models.SavedQuery, error) {
	args := m.Called(ctx, id)
	q, _ := args.Get(0).(*models.SavedQuery)
	return q, args.Error(1)
}

func (m *MockSavedQueryRepository) Create(ctx context.Context, name, query string, group *string) (*models.SavedQuery, error) {
	args := m.Called(ctx, name, query, group)
	q, _ := args.Get(0).(*models.SavedQuery)
	return q, args.Error(1)
}

func (m *MockSavedQueryRepository) Update(ctx context.Context, id int64, name, query string, group *string) (*models.SavedQuery, error) {
	args := m.Called(ctx, id, name, query, group)
	q, _ := args.Get(0).(*models.SavedQuery)
	return q, args.Error(1)
}

func (m *MockSavedQueryRepository) SetOrder(ctx context.Context, id int64, order int) (bool, error) {
	args := m.Called(ctx, id, order)
	return args.Bool(0), args.Error(1)
}

func (m *MockSavedQueryRepository) Reorder(ctx context.Context, ids []int64) error {
	args := m.Called(ctx, ids)
	return args.Error(0)
}

func (m *MockSavedQueryRepository) Delete(ctx context.Context, id int64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

// MockConsoleRepository is a mock implementation of ConsoleRepository for testing
type MockConsoleRepository struct {
	mock.Mock
}

func (m *MockConsoleRepository) Execute(ctx context.Context, sql string, readOnly bool) (*models.QueryResult, error) {
	args := m.Called(ctx, sql, readOnly)
	res, _ := args.Get(0).(*models.QueryResult)
	return res, args.Error(1)
}

func (m *MockConsoleRepository) ListTables(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	tables, _ := args.Get(0).([]string)
	return tables, args.Error(1)
}

func (m *MockConsoleRepository) ListColumns(ctx context.Context, table string) ([]repository.ColumnInfo, error) {
	args := m.Called(ctx, table)
	cols, _ := args.Get(0).([]repository.ColumnInfo)
	return cols, args.Error(1)
}

func (m *MockConsoleRepository) ImportRows(ctx context.Context, table string, columns []string, rows [][]string) (*models.ImportResult, error) {
	args := m.Called(ctx, table, columns, rows)
	res, _ := args.Get(0).(*models.ImportResult)
	return res, args.Error(1)
}

// MockAuthRepository is a mock implementation of AuthRepository for testing
type MockAuthRepository struct {
	mock.Mock
}

func (m *MockAuthRepository) CreateUser(ctx context.Context, user models.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *MockAuthRepository) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	args := m.Called(ctx, username)
	u, _ := args.Get(0).(*models.User)
	return u, args.Error(1)
}

func (m *MockAuthRepository) CreateSession(ctx context.Context, session models.Session) error {
	return m.Called(ctx, session).Error(0)
}

func (m *MockAuthRepository) GetPrincipal(ctx context.Context, sessionID uuid.UUID, now time.Time) (*models.Principal, error) {
	args := m.Called(ctx, sessionID, now)
	p, _ := args.Get(0).(*models.Principal)
	return p, args.Error(1)
}

func (m *MockAuthRepository) DeleteSession(ctx context.Context, sessionID uuid.UUID) error {
	return m.Called(ctx, sessionID).Error(0)
}

func (m *MockAuthRepository) DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}

func intPtr(v int) *int { return &v }

func strPtr(v string) *string { return &v }
