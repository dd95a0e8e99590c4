package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/manor5/electraSIR/internal/logger"
	"github.com/manor5/electraSIR/internal/models"
	"github.com/manor5/electraSIR/internal/repository"
	"golang.org/x/crypto/bcrypt"
)

// MinPasswordLength is the shortest password accepted for new users.
const MinPasswordLength = 8

// ErrUsernameTaken is returned when creating a user whose name exists.
var ErrUsernameTaken = errors.New("username is already taken")

// AuthService defines sign-in, session resolution and user management.
type AuthService interface {
	// Login verifies the credentials and opens a session. Returns
	// ErrInvalidCredentials for an unknown user or a wrong password.
	Login(ctx context.Context, username, password string) (*models.Session, *models.Principal, error)

	// Logout ends the session. Unknown sessions are ignored.
	Logout(ctx context.Context, sessionID string) error

	// ResolveSession returns the caller for an unexpired session. Returns
	// ErrSessionInvalid otherwise.
	ResolveSession(ctx context.Context, sessionID string) (*models.Principal, error)

	// CreateUser hashes password and stores a new user.
	CreateUser(ctx context.Context, username, password string, role models.Role) (*models.User, error)

	// PurgeExpired removes sessions that have expired.
	PurgeExpired(ctx context.Context) (int64, error)
}

type authService struct {
	repo repository.AuthRepository
	ttl  time.Duration
	now  func() time.Time
	log  *logger.Logger
}

// NewAuthService creates a new instance of AuthService. Sessions live for
// ttl.
func NewAuthService(repo repository.AuthRepository, ttl time.Duration, log *logger.Logger) AuthService {
	return &authService{
		repo: repo,
		ttl:  ttl,
		now:  time.Now,
		log:  log,
	}
}

func (s *authService) Login(ctx context.Context, username, password string) (*models.Session, *models.Principal, error) {
	username = strings.TrimSpace(username)

	user, err := s.repo.GetUserByUsername(ctx, username)
	if err != nil {
		s.log.Error("Failed to load user", err, map[string]interface{}{
			"username": username,
		})
		return nil, nil, fmt.Errorf("failed to load user: %w", err)
	}
	if user == nil {
		s.log.Warn("Login for unknown user", map[string]interface{}{
			"username": username,
		})
		return nil, nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		s.log.Warn("Login with wrong password", map[string]interface{}{
			"username": username,
		})
		return nil, nil, ErrInvalidCredentials
	}

	now := s.now()
	session := models.Session{
		ID:        uuid.New(),
		UserID:    user.ID,
		ExpiresAt: now.Add(s.ttl),
		CreatedAt: now,
	}
	if err := s.repo.CreateSession(ctx, session); err != nil {
		s.log.Error("Failed to create session", err, map[string]interface{}{
			"username": username,
		})
		return nil, nil, fmt.Errorf("failed to create session: %w", err)
	}

	s.log.Info("User logged in", map[string]interface{}{
		"username": user.Username,
		"role":     user.Role,
	})

	return &session, &models.Principal{
		UserID:    user.ID,
		Username:  user.Username,
		Role:      user.Role,
		SessionID: session.ID,
		ExpiresAt: session.ExpiresAt,
	}, nil
}

func (s *authService) Logout(ctx context.Context, sessionID string) error {
	id, err := uuid.Parse(sessionID)
	if err != nil {
		return nil
	}
	if err := s.repo.DeleteSession(ctx, id); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

func (s *authService) ResolveSession(ctx context.Context, sessionID string) (*models.Principal, error) {
	id, err := uuid.Parse(sessionID)
	if err != nil {
		return nil, ErrSessionInvalid
	}

	principal, err := s.repo.GetPrincipal(ctx, id, s.now())
	if err != nil {
		return nil, fmt.Errorf("failed to resolve session: %w", err)
	}
	if principal == nil {
		return nil, ErrSessionInvalid
	}
	return principal, nil
}

func (s *authService) CreateUser(ctx context.Context, username, password string, role models.Role) (*models.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, fmt.Errorf("%w: username is required", ErrInvalidInput)
	}
	if len(password) < MinPasswordLength {
		return nil, fmt.Errorf("%w: password must be at least %d characters", ErrInvalidInput, MinPasswordLength)
	}
	if !role.Valid() {
		return nil, fmt.Errorf("%w: unknown role %q", ErrInvalidInput, role)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.User{
		ID:           uuid.New(),
		Username:     username,
		PasswordHash: string(hash),
		Role:         role,
		CreatedAt:    s.now(),
	}
	if err := s.repo.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateUsername) {
			return nil, ErrUsernameTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.log.Info("User created", map[string]interface{}{
		"username": user.Username,
		"role":     user.Role,
	})
	return &user, nil
}

func (s *authService) PurgeExpired(ctx context.Context) (int64, error) {
	n, err := s.repo.DeleteExpiredSessions(ctx, s.now())
	if err != nil {
		return 0, fmt.Errorf("failed to purge sessions: %w", err)
	}
	if n > 0 {
		s.log.Info("Expired sessions purged", map[string]interface{}{
			"count": n,
		})
	}
	return n, nil
}
