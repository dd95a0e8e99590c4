package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/manor5/electraSIR/internal/database"
	"github.com/manor5/electraSIR/internal/models"
)

// ErrDuplicateUsername is returned when creating a user whose name is taken.
var ErrDuplicateUsername = errors.New("username already exists")

// AuthRepository defines data access for users and login sessions.
type AuthRepository interface {
	CreateUser(ctx context.Context, user models.User) error
	// GetUserByUsername returns nil, nil when the user does not exist.
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	CreateSession(ctx context.Context, session models.Session) error
	// GetPrincipal resolves an unexpired session to its user. Returns
	// nil, nil when the session is unknown or expired.
	GetPrincipal(ctx context.Context, sessionID uuid.UUID, now time.Time) (*models.Principal, error)
	DeleteSession(ctx context.Context, sessionID uuid.UUID) error
	// DeleteExpiredSessions removes sessions that expired before now.
	DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error)
}

type authRepository struct {
	db *database.Database
}

// NewAuthRepository creates a new instance of AuthRepository.
func NewAuthRepository(db *database.Database) AuthRepository {
	return &authRepository{
		db: db,
	}
}

func (r *authRepository) CreateUser(ctx context.Context, user models.User) error {
	_, err := r.db.Pool.Exec(ctx, `
		INSERT INTO app_users (id, username, password_hash, role, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, user.ID, user.Username, user.PasswordHash, string(user.Role), user.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicateUsername
		}
		return fmt.Errorf("failed to create user %q: %w", user.Username, err)
	}
	return nil
}

func (r *authRepository) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var u models.User
	var role string
	err := r.db.Pool.QueryRow(ctx, `
		SELECT id, username, password_hash, role, created_at
		FROM app_users
		WHERE username = $1
	`, username).Scan(&u.ID, &u.Username, &u.PasswordHash, &role, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user %q: %w", username, err)
	}
	u.Role = models.Role(role)
	return &u, nil
}

func (r *authRepository) CreateSession(ctx context.Context, s models.Session) error {
	_, err := r.db.Pool.Exec(ctx, `
		INSERT INTO app_sessions (id, user_id, expires_at, created_at)
		VALUES ($1, $2, $3, $4)
	`, s.ID, s.UserID, s.ExpiresAt, s.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	return nil
}

func (r *authRepository) GetPrincipal(ctx context.Context, sessionID uuid.UUID, now time.Time) (*models.Principal, error) {
	var p models.Principal
	var role string
	err := r.db.Pool.QueryRow(ctx, `
		SELECT u.id, u.username, u.role, s.id, s.expires_at
		FROM app_sessions s
		JOIN app_users u ON u.id = s.user_id
		WHERE s.id = $1 AND s.expires_at > $2
	`, sessionID, now).Scan(&p.UserID, &p.Username, &role, &p.SessionID, &p.ExpiresAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to resolve session: %w", err)
	}
	p.Role = models.Role(role)
	return &p, nil
}

func (r *authRepository) DeleteSession(ctx context.Context, sessionID uuid.UUID) error {
	if _, err := r.db.Pool.Exec(ctx, `DELETE FROM app_sessions WHERE id = $1`, sessionID); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

func (r *authRepository) DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error) {
	tag, err := r.db.Pool.Exec(ctx, `DELETE FROM app_sessions WHERE expires_at <= $1`, now)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired sessions: %w", err)
	}
	return tag.RowsAffected(), nil
}
