package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/manor5/electraSIR/internal/console"
	"github.com/manor5/electraSIR/internal/logger"
	"github.com/manor5/electraSIR/internal/middleware"
	"github.com/manor5/electraSIR/internal/models"
	"github.com/manor5/electraSIR/internal/repository"
	"github.com/manor5/electraSIR/internal/services"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
	if err := RegisterValidators(); err != nil {
		panic(err)
	}
}

// newTestRouter creates a router with the production middleware order. A
// non-empty role attaches a principal to every request.
func newTestRouter(role models.Role) *gin.Engine {
	router := gin.New()
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(logger.New("test")))
	if role != "" {
		router.Use(func(c *gin.Context) {
			c.Set(middleware.PrincipalKey, &models.Principal{Username: "tester", Role: role})
			c.Next()
		})
	}
	return router
}

func doJSON(router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		if s, isString := body.(string); isString {
			buf.WriteString(s)
		} else {
			_ = json.NewEncoder(&buf).Encode(body)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// envelope is the decoded shape of both success and error responses.
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   struct {
		Code      string                 `json:"code"`
		Message   string                 `json:"message"`
		Details   map[string]interface{} `json:"details"`
		RequestID string                 `json:"request_id"`
	} `json:"error"`
}

func decode(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}

// MockSearchService is a mock implementation of SearchService for testing
type MockSearchService struct {
	mock.Mock
}

func (m *MockSearchService) SearchElectors(ctx context.Context, req services.SearchRequest) ([]models.Elector, error) {
	args := m.Called(ctx, req)
	rows, _ := args.Get(0).([]models.Elector)
	return rows, args.Error(1)
}

func (m *MockSearchService) FindFamily(ctx context.Context, origin services.FamilyRequest) ([]models.Elector, error) {
	args := m.Called(ctx, origin)
	rows, _ := args.Get(0).([]models.Elector)
	return rows, args.Error(1)
}

func (m *MockSearchService) Stats(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// MockMissingService is a mock implementation of MissingService for testing
type MockMissingService struct {
	mock.Mock
}

func (m *MockMissingService) ListUnmapped(ctx context.Context, page, limit int) (*models.MissingPage, error) {
	args := m.Called(ctx, page, limit)
	p, _ := args.Get(0).(*models.MissingPage)
	return p, args.Error(1)
}

func (m *MockMissingService) SearchCandidates(ctx context.Context, id int64, req services.CandidateRequest) (*models.CandidateSet, error) {
	args := m.Called(ctx, id, req)
	set, _ := args.Get(0).(*models.CandidateSet)
	return set, args.Error(1)
}

func (m *MockMissingService) MarkNoMatch(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockMissingService) MapToCandidate(ctx context.Context, id int64, mapping models.Mapping) error {
	return m.Called(ctx, id, mapping).Error(0)
}

func (m *MockMissingService) Unmark(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

// MockConsoleService is a mock implementation of ConsoleService for testing
type MockConsoleService struct {
	mock.Mock
}

func (m *MockConsoleService) Execute(ctx context.Context, role models.Role, sql string) (*models.QueryResult, error) {
	args := m.Called(ctx, role, sql)
	res, _ := args.Get(0).(*models.QueryResult)
	return res, args.Error(1)
}

func (m *MockConsoleService) Risk(sql string) console.Risk {
	return m.Called(sql).Get(0).(console.Risk)
}

func (m *MockConsoleService) Generate(ctx context.Context, req console.GenerateRequest) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}

func (m *MockConsoleService) Tables(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	tables, _ := args.Get(0).([]string)
	return tables, args.Error(1)
}

func (m *MockConsoleService) Columns(ctx context.Context, table string) ([]repository.ColumnInfo, error) {
	args := m.Called(ctx, table)
	cols, _ := args.Get(0).([]repository.ColumnInfo)
	return cols, args.Error(1)
}

func (m *MockConsoleService) ListSaved(ctx context.Context, role models.Role) ([]models.SavedQuery, error) {
	args := m.Called(ctx, role)
	qs, _ := args.Get(0).([]models.SavedQuery)
	return qs, args.Error(1)
}

func (m *MockConsoleService) SavedGroups(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	groups, _ := args.Get(0).([]string)
	return groups, args.Error(1)
}

func (m *MockConsoleService) GetSaved(ctx context.Context, role models.Role, id int64) (*models.SavedQuery, error) {
	args := m.Called(ctx, role, id)
	q, _ := args.Get(0).(*models.SavedQuery)
	return q, args.Error(1)
}

func (m *MockConsoleService) CreateSaved(ctx context.Context, role models.Role, name, query string, group *string) (*models.SavedQuery, error) {
	args := m.Called(ctx, role, name, query, group)
	q, _ := args.Get(0).(*models.SavedQuery)
	return q, args.Error(1)
}

func (m *MockConsoleService) UpdateSaved(ctx context.Context, role models.Role, id int64, name, query string, group *string) (*models.SavedQuery, error) {
	args := m.Called(ctx, role, id, name, query, group)
	q, _ := args.Get(0).(*models.SavedQuery)
	return q, args.Error(1)
}

func (m *MockConsoleService) SetSavedOrder(ctx context.Context, role models.Role, id int64, order int) error {
	return m.Called(ctx, role, id, order).Error(0)
}

func (m *MockConsoleService) MoveSaved(ctx context.Context, role models.Role, id, targetID int64) ([]models.SavedQuery, error) {
	args := m.Called(ctx, role, id, targetID)
	qs, _ := args.Get(0).([]models.SavedQuery)
	return qs, args.Error(1)
}

func (m *MockConsoleService) DeleteSaved(ctx context.Context, role models.Role, id int64) error {
	return m.Called(ctx, role, id).Error(0)
}

func (m *MockConsoleService) RunSaved(ctx context.Context, role models.Role, id int64) (*models.SavedQuery, *models.QueryResult, error) {
	args := m.Called(ctx, role, id)
	q, _ := args.Get(0).(*models.SavedQuery)
	res, _ := args.Get(1).(*models.QueryResult)
	return q, res, args.Error(2)
}

func (m *MockConsoleService) Import(ctx context.Context, role models.Role, table, content string) (*models.ImportResult, error) {
	args := m.Called(ctx, role, table, content)
	res, _ := args.Get(0).(*models.ImportResult)
	return res, args.Error(1)
}

// MockAuthService is a mock implementation of AuthService for testing
type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Login(ctx context.Context, username, password string) (*models.Session, *models.Principal, error) {
	args := m.Called(ctx, username, password)
	s, _ := args.Get(0).(*models.Session)
	p, _ := args.Get(1).(*models.Principal)
	return s, p, args.Error(2)
}

func (m *MockAuthService) Logout(ctx context.Context, sessionID string) error {
	return m.Called(ctx, sessionID).Error(0)
}

func (m *MockAuthService) ResolveSession(ctx context.Context, sessionID string) (*models.Principal, error) {
	args := m.Called(ctx, sessionID)
	p, _ := args.Get(0).(*models.Principal)
	return p, args.Error(1)
}

func (m *MockAuthService) CreateUser(ctx context.Context, username, password string, role models.Role) (*models.User, error) {
	args := m.Called(ctx, username, password, role)
	u, _ := args.Get(0).(*models.User)
	return u, args.Error(1)
}

func (m *MockAuthService) PurgeExpired(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// MockTransliterationService is a mock implementation of TransliterationService for testing
type MockTransliterationService struct {
	mock.Mock
}

func (m *MockTransliterationService) Transliterate(ctx context.Context, text string) (string, error) {
	args := m.Called(ctx, text)
	return args.String(0), args.Error(1)
}

func intPtr(v int) *int { return &v }
