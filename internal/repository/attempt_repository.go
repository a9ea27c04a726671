package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/phtrivia/phtrivia-backend/internal/models"
	"github.com/phtrivia/phtrivia-backend/internal/repository/common"
)

type AttemptRepository struct {
	db *sqlx.DB
}

func NewAttemptRepository(db *sqlx.DB) *AttemptRepository {
	return &AttemptRepository{db: db}
}

// Create inserts one graded attempt. The unique index on
// (user_id, question_id) makes a second answer to the same question a
// conflict rather than a double credit. Any existing stats aggregate
// row is refreshed in the same transaction, the same way withdrawal
// writes do, so earned points never lag behind the attempt log.
func (r *AttemptRepository) Create(ctx context.Context, attempt *models.Attempt) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	err = tx.GetContext(ctx, attempt, `
		INSERT INTO attempts (user_id, question_id, option_id, is_correct, points_earned)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING *
	`, attempt.UserID, attempt.QuestionID, attempt.OptionID, attempt.IsCorrect, attempt.PointsEarned)
	if err != nil {
		if common.IsUniqueViolation(err, "attempts_user_question_key") {
			return ErrAlreadyAnswered
		}
		return err
	}

	if err := refreshStatsTx(ctx, tx, attempt.UserID); err != nil {
		return err
	}

	return tx.Commit()
}

// SumPointsByUser totals the points earned across the whole attempt log.
func (r *AttemptRepository) SumPointsByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	var total int64
	err := r.db.GetContext(ctx, &total, `
		SELECT COALESCE(SUM(points_earned), 0) FROM attempts WHERE user_id = $1
	`, userID)
	return total, err
}

// GetStats returns attempt count and wins for a user.
func (r *AttemptRepository) GetStats(ctx context.Context, userID uuid.UUID) (*models.GameStats, error) {
	var stats models.GameStats
	err := r.db.GetContext(ctx, &stats, `
		SELECT COUNT(*) AS total_attempts,
		       COUNT(*) FILTER (WHERE is_correct) AS wins
		FROM attempts WHERE user_id = $1
	`, userID)
	if err != nil {
		return nil, err
	}
	if stats.TotalAttempts > 0 {
		stats.WinRate = float64(stats.Wins) / float64(stats.TotalAttempts) * 100
	}
	return &stats, nil
}

// ListRecentByUser returns the newest attempts, capped by limit.
func (r *AttemptRepository) ListRecentByUser(ctx context.Context, userID uuid.UUID, limit int) ([]models.Attempt, error) {
	var attempts []models.Attempt
	err := r.db.SelectContext(ctx, &attempts, `
		SELECT * FROM attempts WHERE user_id = $1 ORDER BY created_at DESC LIMIT $2
	`, userID, limit)
	return attempts, err
}

// Leaderboard ranks users by total points earned from attempts.
func (r *AttemptRepository) Leaderboard(ctx context.Context, limit int) ([]models.LeaderboardEntry, error) {
	var entries []models.LeaderboardEntry
	err := r.db.SelectContext(ctx, &entries, `
		SELECT a.user_id,
		       u.username,
		       COALESCE(SUM(a.points_earned), 0) AS points_earned,
		       COUNT(*) FILTER (WHERE a.is_correct) AS wins
		FROM attempts a
		JOIN users u ON u.id = a.user_id
		WHERE u.is_active
		GROUP BY a.user_id, u.username
		ORDER BY points_earned DESC
		LIMIT $1
	`, limit)
	return entries, err
}
