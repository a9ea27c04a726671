package models

import (
	"time"

	"github.com/google/uuid"
)

// Attempt is one graded answer to one question by one user.
// Attempts are immutable: they are inserted by the answer endpoint and
// never updated or deleted, which makes the log a safe source of truth
// for the points ledger.
type Attempt struct {
	ID           uuid.UUID `db:"id" json:"id"`
	UserID       uuid.UUID `db:"user_id" json:"user_id"`
	QuestionID   uuid.UUID `db:"question_id" json:"question_id"`
	OptionID     uuid.UUID `db:"option_id" json:"option_id"`
	IsCorrect    bool      `db:"is_correct" json:"is_correct"`
	PointsEarned int64     `db:"points_earned" json:"points_earned"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}
