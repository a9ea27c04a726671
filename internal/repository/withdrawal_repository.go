package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/phtrivia/phtrivia-backend/internal/models"
	"github.com/phtrivia/phtrivia-backend/internal/repository/common"
)

type WithdrawalRepository struct {
	db *sqlx.DB
}

func NewWithdrawalRepository(db *sqlx.DB) *WithdrawalRepository {
	return &WithdrawalRepository{db: db}
}

// Create persists a new pending withdrawal request. When a stats
// aggregate row exists for the user it is refreshed in the same
// transaction, so the primary balance path never lags the logs.
func (r *WithdrawalRepository) Create(ctx context.Context, userID uuid.UUID, amount decimal.Decimal, points int64, method, details string) (*models.Withdrawal, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var w models.Withdrawal
	err = tx.GetContext(ctx, &w, `
		INSERT INTO withdrawals (user_id, amount, points_deducted, payment_method, payment_details, status)
		VALUES ($1, $2, $3, $4, $5, 'pending')
		RETURNING *
	`, userID, amount, points, method, details)
	if err != nil {
		return nil, err
	}

	if err := refreshStatsTx(ctx, tx, userID); err != nil {
		return nil, err
	}

	return &w, tx.Commit()
}

func (r *WithdrawalRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Withdrawal, error) {
	return common.GetByID[models.Withdrawal](ctx, r.db, "withdrawals", id, ErrWithdrawalNotFound)
}

// ListByUser returns the user's withdrawals, newest first.
func (r *WithdrawalRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]models.Withdrawal, error) {
	var withdrawals []models.Withdrawal
	err := r.db.SelectContext(ctx, &withdrawals, `
		SELECT * FROM withdrawals WHERE user_id = $1 ORDER BY requested_at DESC LIMIT $2
	`, userID, limit)
	return withdrawals, err
}

// ListByStatus returns withdrawals in a given status for the admin queue.
func (r *WithdrawalRepository) ListByStatus(ctx context.Context, status string, limit, offset int) ([]models.Withdrawal, error) {
	var withdrawals []models.Withdrawal
	err := r.db.SelectContext(ctx, &withdrawals, `
		SELECT * FROM withdrawals WHERE status = $1 ORDER BY requested_at ASC LIMIT $2 OFFSET $3
	`, status, limit, offset)
	return withdrawals, err
}

// SumDeductedByUser totals points_deducted over requests that still count
// against the balance. Rejected requests are excluded on purpose: their
// points were never removed from the attempt log.
func (r *WithdrawalRepository) SumDeductedByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	var total int64
	err := r.db.GetContext(ctx, &total, `
		SELECT COALESCE(SUM(points_deducted), 0)
		FROM withdrawals
		WHERE user_id = $1 AND status IN ('pending', 'approved', 'completed')
	`, userID)
	return total, err
}

// HasPendingSince reports whether the user has a pending request created
// after the given instant. This is the duplicate-submission cooldown: a
// best-effort window check, not an atomic guard.
func (r *WithdrawalRepository) HasPendingSince(ctx context.Context, userID uuid.UUID, since time.Time) (bool, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `
		SELECT COUNT(*) FROM withdrawals
		WHERE user_id = $1 AND status = 'pending' AND requested_at > $2
	`, userID, since)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// UpdateStatus transitions a withdrawal from an expected current status to
// a new one. The expected status sits in the WHERE clause so a concurrent
// admin action cannot be overwritten: zero affected rows means the stored
// status is no longer what the caller validated against.
func (r *WithdrawalRepository) UpdateStatus(ctx context.Context, id uuid.UUID, fromStatus, toStatus string, processedAt *time.Time) (*models.Withdrawal, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var w models.Withdrawal
	err = tx.GetContext(ctx, &w, `
		UPDATE withdrawals
		SET status = $3, processed_at = $4
		WHERE id = $1 AND status = $2
		RETURNING *
	`, id, fromStatus, toStatus, processedAt)
	if errors.Is(err, sql.ErrNoRows) {
		// Row missing or status moved under us; let the caller decide which.
		if _, getErr := r.GetByID(ctx, id); getErr != nil {
			return nil, getErr
		}
		return nil, ErrStatusConflict
	}
	if err != nil {
		return nil, err
	}

	if err := refreshStatsTx(ctx, tx, w.UserID); err != nil {
		return nil, err
	}

	return &w, tx.Commit()
}

// refreshStatsTx recomputes an existing aggregate row from the raw logs
// inside the caller's transaction. Zero affected rows means no aggregate
// is maintained for the user, which is fine: the fallback path sums the
// logs directly.
func refreshStatsTx(ctx context.Context, tx *sqlx.Tx, userID uuid.UUID) error {
	_, err := tx.ExecContext(ctx, `
		UPDATE withdrawal_stats ws
		SET earned = e.earned + p.referral_bonus_points,
		    used = w.used,
		    available = e.earned + p.referral_bonus_points - w.used,
		    updated_at = NOW()
		FROM (SELECT COALESCE(SUM(points_earned), 0) AS earned FROM attempts WHERE user_id = $1) e,
		     (SELECT COALESCE(SUM(points_deducted), 0) AS used
		      FROM withdrawals
		      WHERE user_id = $1 AND status IN ('pending', 'approved', 'completed')) w,
		     (SELECT referral_bonus_points FROM profiles WHERE user_id = $1) p
		WHERE ws.user_id = $1
	`, userID)
	return err
}

// GetStats reads the precomputed per-user ledger aggregate.
func (r *WithdrawalRepository) GetStats(ctx context.Context, userID uuid.UUID) (*models.WithdrawalStats, error) {
	return common.GetByField[models.WithdrawalStats](ctx, r.db, "withdrawal_stats", "user_id", userID, ErrStatsNotFound)
}

// RecomputeStats rebuilds the aggregate row from the raw attempt and
// withdrawal logs plus the profile referral bonus. Both paths are pure
// integer sums, so aggregate and fallback always agree.
func (r *WithdrawalRepository) RecomputeStats(ctx context.Context, userID uuid.UUID) (*models.WithdrawalStats, error) {
	var stats models.WithdrawalStats
	err := r.db.GetContext(ctx, &stats, `
		INSERT INTO withdrawal_stats (user_id, earned, used, available, updated_at)
		SELECT $1,
		       e.earned + p.referral_bonus_points,
		       w.used,
		       e.earned + p.referral_bonus_points - w.used,
		       NOW()
		FROM (SELECT COALESCE(SUM(points_earned), 0) AS earned FROM attempts WHERE user_id = $1) e,
		     (SELECT COALESCE(SUM(points_deducted), 0) AS used
		      FROM withdrawals
		      WHERE user_id = $1 AND status IN ('pending', 'approved', 'completed')) w,
		     (SELECT referral_bonus_points FROM profiles WHERE user_id = $1) p
		ON CONFLICT (user_id) DO UPDATE
		SET earned = EXCLUDED.earned,
		    used = EXCLUDED.used,
		    available = EXCLUDED.available,
		    updated_at = EXCLUDED.updated_at
		RETURNING *
	`, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &stats, nil
}
