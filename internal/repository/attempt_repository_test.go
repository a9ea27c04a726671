package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"

	"github.com/phtrivia/phtrivia-backend/internal/models"
)

func attemptColumns() []string {
	return []string{"id", "user_id", "question_id", "option_id", "is_correct", "points_earned", "created_at"}
}

func TestAttemptRepository_Create(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAttemptRepository(db)

	attempt := &models.Attempt{
		UserID:       uuid.New(),
		QuestionID:   uuid.New(),
		OptionID:     uuid.New(),
		IsCorrect:    true,
		PointsEarned: 50,
	}

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO attempts`).
		WithArgs(attempt.UserID, attempt.QuestionID, attempt.OptionID, true, int64(50)).
		WillReturnRows(sqlmock.NewRows(attemptColumns()).
			AddRow(uuid.New(), attempt.UserID, attempt.QuestionID, attempt.OptionID, true, int64(50), time.Now()))
	mock.ExpectExec(`UPDATE withdrawal_stats`).
		WithArgs(attempt.UserID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.Create(context.Background(), attempt)

	assert.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, attempt.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// A failed aggregate refresh rolls the attempt insert back. The log and
// the aggregate either both move or neither does.
func TestAttemptRepository_Create_RefreshFailureRollsBack(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAttemptRepository(db)

	attempt := &models.Attempt{
		UserID:       uuid.New(),
		QuestionID:   uuid.New(),
		OptionID:     uuid.New(),
		IsCorrect:    true,
		PointsEarned: 25,
	}

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO attempts`).
		WithArgs(attempt.UserID, attempt.QuestionID, attempt.OptionID, true, int64(25)).
		WillReturnRows(sqlmock.NewRows(attemptColumns()).
			AddRow(uuid.New(), attempt.UserID, attempt.QuestionID, attempt.OptionID, true, int64(25), time.Now()))
	mock.ExpectExec(`UPDATE withdrawal_stats`).
		WithArgs(attempt.UserID).
		WillReturnError(assert.AnError)
	mock.ExpectRollback()

	err := repo.Create(context.Background(), attempt)

	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAttemptRepository_Create_Duplicate(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAttemptRepository(db)

	attempt := &models.Attempt{
		UserID:     uuid.New(),
		QuestionID: uuid.New(),
		OptionID:   uuid.New(),
	}

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO attempts`).
		WithArgs(attempt.UserID, attempt.QuestionID, attempt.OptionID, false, int64(0)).
		WillReturnError(&pq.Error{Code: "23505", Constraint: "attempts_user_question_key"})
	mock.ExpectRollback()

	err := repo.Create(context.Background(), attempt)

	assert.ErrorIs(t, err, ErrAlreadyAnswered)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAttemptRepository_SumPointsByUser(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAttemptRepository(db)
	userID := uuid.New()

	mock.ExpectQuery(`SELECT COALESCE\(SUM\(points_earned\), 0\) FROM attempts`).
		WithArgs(userID).
		WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(int64(850)))

	total, err := repo.SumPointsByUser(context.Background(), userID)

	assert.NoError(t, err)
	assert.Equal(t, int64(850), total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAttemptRepository_GetStats(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAttemptRepository(db)
	userID := uuid.New()

	mock.ExpectQuery(`SELECT COUNT\(\*\) AS total_attempts`).
		WithArgs(userID).
		WillReturnRows(sqlmock.NewRows([]string{"total_attempts", "wins"}).AddRow(10, 4))

	stats, err := repo.GetStats(context.Background(), userID)

	assert.NoError(t, err)
	assert.Equal(t, 10, stats.TotalAttempts)
	assert.Equal(t, 4, stats.Wins)
	assert.InDelta(t, 40.0, stats.WinRate, 0.001)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAttemptRepository_GetStats_NoAttempts(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAttemptRepository(db)
	userID := uuid.New()

	mock.ExpectQuery(`SELECT COUNT\(\*\) AS total_attempts`).
		WithArgs(userID).
		WillReturnRows(sqlmock.NewRows([]string{"total_attempts", "wins"}).AddRow(0, 0))

	stats, err := repo.GetStats(context.Background(), userID)

	assert.NoError(t, err)
	assert.Zero(t, stats.WinRate)
	assert.NoError(t, mock.ExpectationsWereMet())
}
