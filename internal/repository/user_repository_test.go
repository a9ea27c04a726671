package repository

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

// A referral credit is earned points, so an existing aggregate row is
// recomputed in the same transaction as the profile update.
func TestUserRepository_CreditReferralBonus_RefreshesStats(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)
	referrerID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE profiles`).
		WithArgs(referrerID, int64(100)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE withdrawal_stats`).
		WithArgs(referrerID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.CreditReferralBonus(context.Background(), referrerID, 100)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_CreditReferralBonus_UnknownReferrer(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)
	referrerID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE profiles`).
		WithArgs(referrerID, int64(100)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := repo.CreditReferralBonus(context.Background(), referrerID, 100)

	assert.ErrorIs(t, err, ErrUserNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
