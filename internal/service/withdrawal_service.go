package service

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/phtrivia/phtrivia-backend/internal/logger"
	"github.com/phtrivia/phtrivia-backend/internal/models"
	"github.com/phtrivia/phtrivia-backend/internal/validation"
)

// WithdrawalRepository is the storage slice behind the withdrawal flow.
type WithdrawalRepository interface {
	Create(ctx context.Context, userID uuid.UUID, amount decimal.Decimal, points int64, method, details string) (*models.Withdrawal, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Withdrawal, error)
	ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]models.Withdrawal, error)
	ListByStatus(ctx context.Context, status string, limit, offset int) ([]models.Withdrawal, error)
	HasPendingSince(ctx context.Context, userID uuid.UUID, since time.Time) (bool, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, fromStatus, toStatus string, processedAt *time.Time) (*models.Withdrawal, error)
}

// BalanceReader supplies the available balance at admission time.
type BalanceReader interface {
	StrictBalance(ctx context.Context, userID uuid.UUID) (*models.Balance, error)
}

// WithdrawalNotifier pushes status events to the user, best effort.
type WithdrawalNotifier interface {
	WithdrawalStatusChanged(userID uuid.UUID, withdrawal *models.Withdrawal)
}

// WithdrawalService admits withdrawal requests and drives the
// administrator status machine:
//
//	pending -> approved -> completed
//	pending -> rejected
//
// Any other transition is refused against the stored status, never the
// caller-supplied one.
type WithdrawalService struct {
	repo     WithdrawalRepository
	balances BalanceReader
	notifier WithdrawalNotifier

	minPoints         int64
	pointsPerCurrency int64
	cooldown          time.Duration
}

// NewWithdrawalService creates the withdrawal service.
func NewWithdrawalService(repo WithdrawalRepository, balances BalanceReader, minPoints, pointsPerCurrency int64, cooldown time.Duration) *WithdrawalService {
	return &WithdrawalService{
		repo:              repo,
		balances:          balances,
		minPoints:         minPoints,
		pointsPerCurrency: pointsPerCurrency,
		cooldown:          cooldown,
	}
}

// SetNotifier attaches the optional status-event pusher.
func (s *WithdrawalService) SetNotifier(n WithdrawalNotifier) {
	s.notifier = n
}

// allowedTransitions maps a stored status to the statuses an
// administrator may move it to.
var allowedTransitions = map[string]map[string]struct{}{
	models.WithdrawalStatusPending: {
		models.WithdrawalStatusApproved: {},
		models.WithdrawalStatusRejected: {},
	},
	models.WithdrawalStatusApproved: {
		models.WithdrawalStatusCompleted: {},
	},
}

// Submit validates and persists a withdrawal request. Checks run in a
// fixed order and each failure is a hard, typed rejection:
//
//  1. payment details non-empty after trimming and within the length cap
//  2. points parse as a positive integer
//  3. no pending request inside the cooldown window
//  4. points >= configured minimum
//  5. points <= available balance, recomputed now, not from page load
//
// The cooldown is a best-effort duplicate guard: two submissions landing
// in the same instant can both pass it. Accepted as a documented
// limitation; the balance is still re-read at admission so the window
// only bounds duplicates, not overdrafts from stale reads.
func (s *WithdrawalService) Submit(ctx context.Context, userID uuid.UUID, method, details, pointsStr string) (*models.Withdrawal, error) {
	if _, ok := models.ValidPaymentMethods[method]; !ok {
		return nil, ErrInvalidPaymentMethod
	}

	details = strings.TrimSpace(details)
	if details == "" {
		return nil, ErrEmptyPaymentDetails
	}
	if err := validation.ValidatePaymentDetails(details); err != nil {
		return nil, ErrInvalidPaymentDetails
	}

	points, err := strconv.ParseInt(strings.TrimSpace(pointsStr), 10, 64)
	if err != nil || points <= 0 {
		return nil, ErrInvalidAmount
	}

	since := time.Now().Add(-s.cooldown)
	hasPending, err := s.repo.HasPendingSince(ctx, userID, since)
	if err != nil {
		return nil, err
	}
	if hasPending {
		return nil, ErrDuplicatePending
	}

	if points < s.minPoints {
		return nil, ErrBelowMinimum
	}

	balance, err := s.balances.StrictBalance(ctx, userID)
	if err != nil {
		return nil, err
	}
	if points > balance.Available {
		return nil, ErrInsufficientBalance
	}

	amount := s.Amount(points)
	withdrawal, err := s.repo.Create(ctx, userID, amount, points, method, details)
	if err != nil {
		return nil, err
	}

	logger.Module("withdrawal").WithField("user_id", userID).
		WithField("points", points).WithField("amount", amount.String()).
		Info("withdrawal request admitted")

	return withdrawal, nil
}

// Amount converts points to currency at the fixed rate, 2 decimal places.
func (s *WithdrawalService) Amount(points int64) decimal.Decimal {
	return decimal.NewFromInt(points).
		Div(decimal.NewFromInt(s.pointsPerCurrency)).
		Round(2)
}

// UpdateStatus performs one administrator transition. The current status
// is re-read from the store and validated there a second time via a
// compare-and-set update, so two concurrent admin actions cannot both
// win.
func (s *WithdrawalService) UpdateStatus(ctx context.Context, id uuid.UUID, newStatus string) (*models.Withdrawal, error) {
	if _, ok := models.ValidWithdrawalStatuses[newStatus]; !ok {
		return nil, ErrUnknownStatus
	}

	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if _, ok := allowedTransitions[current.Status][newStatus]; !ok {
		return nil, ErrInvalidTransition
	}

	// Terminal states record when the request was processed.
	var processedAt *time.Time
	if newStatus == models.WithdrawalStatusCompleted || newStatus == models.WithdrawalStatusRejected {
		now := time.Now()
		processedAt = &now
	}

	updated, err := s.repo.UpdateStatus(ctx, id, current.Status, newStatus, processedAt)
	if err != nil {
		return nil, err
	}

	logger.Module("withdrawal").WithField("withdrawal_id", id).
		WithField("from", current.Status).WithField("to", newStatus).
		Info("withdrawal status updated")

	if s.notifier != nil {
		s.notifier.WithdrawalStatusChanged(updated.UserID, updated)
	}

	return updated, nil
}

// Get returns one withdrawal.
func (s *WithdrawalService) Get(ctx context.Context, id uuid.UUID) (*models.Withdrawal, error) {
	return s.repo.GetByID(ctx, id)
}

// ListUserWithdrawals returns the user's most recent requests.
func (s *WithdrawalService) ListUserWithdrawals(ctx context.Context, userID uuid.UUID, limit int) ([]models.Withdrawal, error) {
	return s.repo.ListByUser(ctx, userID, limit)
}

// ListByStatus returns the admin review queue for one status.
func (s *WithdrawalService) ListByStatus(ctx context.Context, status string, limit, offset int) ([]models.Withdrawal, error) {
	if _, ok := models.ValidWithdrawalStatuses[status]; !ok {
		return nil, ErrUnknownStatus
	}
	return s.repo.ListByStatus(ctx, status, limit, offset)
}
