package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/phtrivia/phtrivia-backend/internal/models"
	"github.com/phtrivia/phtrivia-backend/internal/repository/common"
)

type UserRepository struct {
	db *sqlx.DB
}

func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts a user together with an empty profile in one transaction.
func (r *UserRepository) Create(ctx context.Context, user *models.User, displayName string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	err = tx.GetContext(ctx, user, `
		INSERT INTO users (email, username, password_hash, role, referral_code, referred_by)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING *
	`, user.Email, user.Username, user.PasswordHash, user.Role, user.ReferralCode, user.ReferredBy)
	if err != nil {
		if common.IsUniqueViolation(err, "users_email_key") {
			return ErrEmailTaken
		}
		if common.IsUniqueViolation(err, "users_username_key") {
			return ErrUsernameTaken
		}
		return err
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO profiles (user_id, display_name) VALUES ($1, $2)
	`, user.ID, displayName)
	if err != nil {
		return err
	}

	return tx.Commit()
}

func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return common.GetByID[models.User](ctx, r.db, "users", id, ErrUserNotFound)
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return common.GetByField[models.User](ctx, r.db, "users", "email", strings.ToLower(email), ErrUserNotFound)
}

func (r *UserRepository) GetByReferralCode(ctx context.Context, code string) (*models.User, error) {
	return common.GetByField[models.User](ctx, r.db, "users", "referral_code", code, ErrUserNotFound)
}

// GetRole reads the current role straight from the users table. Privileged
// operations call this on every request instead of trusting token claims.
func (r *UserRepository) GetRole(ctx context.Context, id uuid.UUID) (string, error) {
	var role string
	err := r.db.GetContext(ctx, &role, `SELECT role FROM users WHERE id = $1 AND is_active`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrUserNotFound
	}
	return role, err
}

func (r *UserRepository) GetProfile(ctx context.Context, userID uuid.UUID) (*models.Profile, error) {
	return common.GetByField[models.Profile](ctx, r.db, "profiles", "user_id", userID, ErrUserNotFound)
}

// CreditReferralBonus adds bonus points to the referrer's profile and
// bumps the referral counter. The bonus counts as earned points, so any
// existing stats aggregate row is refreshed in the same transaction.
func (r *UserRepository) CreditReferralBonus(ctx context.Context, referrerID uuid.UUID, points int64) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		UPDATE profiles
		SET referral_bonus_points = referral_bonus_points + $2,
		    referral_count = referral_count + 1,
		    updated_at = NOW()
		WHERE user_id = $1
	`, referrerID, points)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrUserNotFound
	}

	if err := refreshStatsTx(ctx, tx, referrerID); err != nil {
		return err
	}

	return tx.Commit()
}

func (r *UserRepository) UpdateLastLoginAt(ctx context.Context, userID uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, `UPDATE users SET last_login_at = NOW() WHERE id = $1`, userID)
	return err
}

func (r *UserRepository) CreateSession(ctx context.Context, session *models.Session) error {
	return r.db.GetContext(ctx, session, `
		INSERT INTO sessions (user_id, refresh_token, user_agent, ip_address, expires_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING *
	`, session.UserID, session.RefreshToken, session.UserAgent, session.IPAddress, session.ExpiresAt)
}

func (r *UserRepository) GetSessionByToken(ctx context.Context, refreshToken string) (*models.Session, error) {
	return common.GetByField[models.Session](ctx, r.db, "sessions", "refresh_token", refreshToken, ErrSessionNotFound)
}

func (r *UserRepository) DeleteSession(ctx context.Context, refreshToken string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE refresh_token = $1`, refreshToken)
	return err
}

func (r *UserRepository) DeleteExpiredSessions(ctx context.Context, userID uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE user_id = $1 AND expires_at < NOW()`, userID)
	return err
}

// ListSessions returns the user's active sessions, newest first.
func (r *UserRepository) ListSessions(ctx context.Context, userID uuid.UUID) ([]models.Session, error) {
	var sessions []models.Session
	err := r.db.SelectContext(ctx, &sessions, `
		SELECT * FROM sessions WHERE user_id = $1 AND expires_at > NOW() ORDER BY created_at DESC
	`, userID)
	return sessions, err
}
