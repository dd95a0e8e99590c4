package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/manor5/electraSIR/internal/logger"
	"github.com/manor5/electraSIR/internal/models"
	"github.com/manor5/electraSIR/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

var fixedNow = time.Date(2025, 11, 4, 9, 30, 0, 0, time.UTC)

func newAuthTestService() (*authService, *MockAuthRepository) {
	repo := new(MockAuthRepository)
	svc := NewAuthService(repo, 6*time.Hour, logger.New("test")).(*authService)
	svc.now = func() time.Time { return fixedNow }
	return svc, repo
}

func testUser(t *testing.T, password string) *models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return &models.User{
		ID:           uuid.New(),
		Username:     "meena",
		PasswordHash: string(hash),
		Role:         models.RoleOperator,
	}
}

func TestLogin_Success(t *testing.T) {
	// Arrange
	service, repo := newAuthTestService()
	ctx := context.Background()
	user := testUser(t, "correct horse")

	repo.On("GetUserByUsername", ctx, "meena").Return(user, nil)
	repo.On("CreateSession", ctx, mock.MatchedBy(func(s models.Session) bool {
		return s.UserID == user.ID && s.ExpiresAt.Equal(fixedNow.Add(6*time.Hour))
	})).Return(nil)

	// Act
	session, principal, err := service.Login(ctx, " meena ", "correct horse")

	// Assert
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, session.ID)
	assert.Equal(t, session.ID, principal.SessionID)
	assert.Equal(t, models.RoleOperator, principal.Role)
	assert.Equal(t, "meena", principal.Username)
	repo.AssertExpectations(t)
}

func TestLogin_WrongPassword(t *testing.T) {
	service, repo := newAuthTestService()
	ctx := context.Background()

	repo.On("GetUserByUsername", ctx, "meena").Return(testUser(t, "correct horse"), nil)

	_, _, err := service.Login(ctx, "meena", "battery staple")

	assert.ErrorIs(t, err, ErrInvalidCredentials)
	repo.AssertNotCalled(t, "CreateSession", mock.Anything, mock.Anything)
}

func TestLogin_UnknownUser(t *testing.T) {
	service, repo := newAuthTestService()
	ctx := context.Background()

	repo.On("GetUserByUsername", ctx, "ghost").Return(nil, nil)

	_, _, err := service.Login(ctx, "ghost", "whatever1")

	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestResolveSession(t *testing.T) {
	service, repo := newAuthTestService()
	ctx := context.Background()

	live := uuid.New()
	expired := uuid.New()
	principal := &models.Principal{Username: "meena", Role: models.RoleAdmin, SessionID: live}

	repo.On("GetPrincipal", ctx, live, fixedNow).Return(principal, nil)
	repo.On("GetPrincipal", ctx, expired, fixedNow).Return(nil, nil)

	got, err := service.ResolveSession(ctx, live.String())
	require.NoError(t, err)
	assert.Equal(t, principal, got)

	_, err = service.ResolveSession(ctx, expired.String())
	assert.ErrorIs(t, err, ErrSessionInvalid)

	_, err = service.ResolveSession(ctx, "not-a-uuid")
	assert.ErrorIs(t, err, ErrSessionInvalid)
}

func TestLogout(t *testing.T) {
	service, repo := newAuthTestService()
	ctx := context.Background()
	id := uuid.New()

	repo.On("DeleteSession", ctx, id).Return(nil)

	assert.NoError(t, service.Logout(ctx, id.String()))
	assert.NoError(t, service.Logout(ctx, "garbage"))
	repo.AssertNumberOfCalls(t, "DeleteSession", 1)
}

func TestCreateUser(t *testing.T) {
	service, repo := newAuthTestService()
	ctx := context.Background()

	repo.On("CreateUser", ctx, mock.MatchedBy(func(u models.User) bool {
		return u.Username == "kumar" && u.Role == models.RoleAdmin &&
			bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("s3cret-pass")) == nil
	})).Return(nil)

	user, err := service.CreateUser(ctx, "kumar", "s3cret-pass", models.RoleAdmin)

	require.NoError(t, err)
	assert.Equal(t, "kumar", user.Username)
	assert.NotEqual(t, "s3cret-pass", user.PasswordHash)
	repo.AssertExpectations(t)
}

func TestCreateUser_Validation(t *testing.T) {
	service, repo := newAuthTestService()
	ctx := context.Background()

	_, err := service.CreateUser(ctx, " ", "long-enough", models.RoleViewer)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = service.CreateUser(ctx, "kumar", "short", models.RoleViewer)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = service.CreateUser(ctx, "kumar", "long-enough", models.Role("root"))
	assert.ErrorIs(t, err, ErrInvalidInput)

	repo.AssertNotCalled(t, "CreateUser", mock.Anything, mock.Anything)
}

func TestCreateUser_Duplicate(t *testing.T) {
	service, repo := newAuthTestService()
	ctx := context.Background()

	repo.On("CreateUser", ctx, mock.Anything).Return(repository.ErrDuplicateUsername)

	_, err := service.CreateUser(ctx, "kumar", "long-enough", models.RoleViewer)

	assert.ErrorIs(t, err, ErrUsernameTaken)
}

func TestPurgeExpired(t *testing.T) {
	service, repo := newAuthTestService()
	ctx := context.Background()

	repo.On("DeleteExpiredSessions", ctx, fixedNow).Return(int64(3), nil).Once()
	n, err := service.PurgeExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	repo.On("DeleteExpiredSessions", ctx, fixedNow).Return(int64(0), errors.New("down")).Once()
	_, err = service.PurgeExpired(ctx)
	assert.Error(t, err)
}
