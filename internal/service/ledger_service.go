package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/phtrivia/phtrivia-backend/internal/logger"
	"github.com/phtrivia/phtrivia-backend/internal/models"
	"github.com/phtrivia/phtrivia-backend/internal/repository"
)

// LedgerAttemptRepository is the attempt-log slice the ledger reads.
type LedgerAttemptRepository interface {
	SumPointsByUser(ctx context.Context, userID uuid.UUID) (int64, error)
}

// LedgerWithdrawalRepository is the withdrawal slice the ledger reads.
type LedgerWithdrawalRepository interface {
	SumDeductedByUser(ctx context.Context, userID uuid.UUID) (int64, error)
	GetStats(ctx context.Context, userID uuid.UUID) (*models.WithdrawalStats, error)
	RecomputeStats(ctx context.Context, userID uuid.UUID) (*models.WithdrawalStats, error)
}

// LedgerProfileRepository supplies the referral bonus credit.
type LedgerProfileRepository interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (*models.Profile, error)
}

// LedgerService derives a user's points position:
//
//	earned    = sum(points_earned over attempts) + referral bonus
//	used      = sum(points_deducted over pending/approved/completed withdrawals)
//	available = earned - used
//
// The precomputed aggregate is preferred when present; the raw logs are
// the fallback. Both are integer sums over the same rows, so they agree.
type LedgerService struct {
	attempts    LedgerAttemptRepository
	withdrawals LedgerWithdrawalRepository
	profiles    LedgerProfileRepository
}

// NewLedgerService creates the ledger service.
func NewLedgerService(attempts LedgerAttemptRepository, withdrawals LedgerWithdrawalRepository, profiles LedgerProfileRepository) *LedgerService {
	return &LedgerService{
		attempts:    attempts,
		withdrawals: withdrawals,
		profiles:    profiles,
	}
}

// Balance returns the user's current points position. Read failures
// degrade to zero totals instead of propagating: balance widgets must
// never take the rest of the page down with them.
func (s *LedgerService) Balance(ctx context.Context, userID uuid.UUID) *models.Balance {
	balance, err := s.balance(ctx, userID)
	if err != nil {
		logger.Module("ledger").WithError(err).WithField("user_id", userID).
			Error("balance read failed, serving zero totals")
		return &models.Balance{}
	}
	return balance
}

// StrictBalance returns the balance or the underlying read error. The
// withdrawal validator uses this path: admitting a request against a
// degraded zero balance would be wrong in the other direction.
func (s *LedgerService) StrictBalance(ctx context.Context, userID uuid.UUID) (*models.Balance, error) {
	return s.balance(ctx, userID)
}

func (s *LedgerService) balance(ctx context.Context, userID uuid.UUID) (*models.Balance, error) {
	// Primary path: the maintained aggregate.
	stats, err := s.withdrawals.GetStats(ctx, userID)
	if err == nil {
		return &models.Balance{
			Earned:    stats.Earned,
			Used:      stats.Used,
			Available: stats.Available,
		}, nil
	}
	if !errors.Is(err, repository.ErrStatsNotFound) {
		return nil, err
	}

	// Fallback path: sum the raw logs.
	earned, err := s.attempts.SumPointsByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	used, err := s.withdrawals.SumDeductedByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	var referralBonus int64
	profile, err := s.profiles.GetProfile(ctx, userID)
	if err == nil {
		referralBonus = profile.ReferralBonusPoints
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		return nil, err
	}

	earned += referralBonus
	return &models.Balance{
		Earned:    earned,
		Used:      used,
		Available: earned - used,
	}, nil
}

// RecomputeStats rebuilds the aggregate from the raw logs. Exposed for
// the admin dashboard after manual corrections.
func (s *LedgerService) RecomputeStats(ctx context.Context, userID uuid.UUID) (*models.WithdrawalStats, error) {
	return s.withdrawals.RecomputeStats(ctx, userID)
}
