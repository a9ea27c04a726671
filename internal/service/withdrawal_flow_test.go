package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phtrivia/phtrivia-backend/internal/models"
	"github.com/phtrivia/phtrivia-backend/internal/repository"
)

// memLedgerStore backs both the ledger and the withdrawal service with
// the same in-memory state, so admission always sees the effect of
// earlier requests.
type memLedgerStore struct {
	earned      int64
	bonus       int64
	withdrawals map[uuid.UUID]*models.Withdrawal
}

func newMemLedgerStore(earned, bonus int64) *memLedgerStore {
	return &memLedgerStore{
		earned:      earned,
		bonus:       bonus,
		withdrawals: make(map[uuid.UUID]*models.Withdrawal),
	}
}

func (s *memLedgerStore) SumPointsByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	return s.earned, nil
}

func (s *memLedgerStore) SumDeductedByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	var used int64
	for _, w := range s.withdrawals {
		if w.UserID == userID && models.CountsAgainstBalance(w.Status) {
			used += w.PointsDeducted
		}
	}
	return used, nil
}

func (s *memLedgerStore) GetStats(ctx context.Context, userID uuid.UUID) (*models.WithdrawalStats, error) {
	return nil, repository.ErrStatsNotFound
}

func (s *memLedgerStore) RecomputeStats(ctx context.Context, userID uuid.UUID) (*models.WithdrawalStats, error) {
	used, _ := s.SumDeductedByUser(ctx, userID)
	earned := s.earned + s.bonus
	return &models.WithdrawalStats{UserID: userID, Earned: earned, Used: used, Available: earned - used}, nil
}

func (s *memLedgerStore) GetProfile(ctx context.Context, userID uuid.UUID) (*models.Profile, error) {
	return &models.Profile{UserID: userID, ReferralBonusPoints: s.bonus}, nil
}

func (s *memLedgerStore) Create(ctx context.Context, userID uuid.UUID, amount decimal.Decimal, points int64, method, details string) (*models.Withdrawal, error) {
	w := &models.Withdrawal{
		ID:             uuid.New(),
		UserID:         userID,
		Amount:         amount,
		PointsDeducted: points,
		PaymentMethod:  method,
		PaymentDetails: details,
		Status:         models.WithdrawalStatusPending,
		RequestedAt:    time.Now(),
	}
	s.withdrawals[w.ID] = w
	return w, nil
}

func (s *memLedgerStore) GetByID(ctx context.Context, id uuid.UUID) (*models.Withdrawal, error) {
	if w, ok := s.withdrawals[id]; ok {
		return w, nil
	}
	return nil, repository.ErrWithdrawalNotFound
}

func (s *memLedgerStore) ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]models.Withdrawal, error) {
	var out []models.Withdrawal
	for _, w := range s.withdrawals {
		if w.UserID == userID {
			out = append(out, *w)
		}
	}
	return out, nil
}

func (s *memLedgerStore) ListByStatus(ctx context.Context, status string, limit, offset int) ([]models.Withdrawal, error) {
	var out []models.Withdrawal
	for _, w := range s.withdrawals {
		if w.Status == status {
			out = append(out, *w)
		}
	}
	return out, nil
}

func (s *memLedgerStore) HasPendingSince(ctx context.Context, userID uuid.UUID, since time.Time) (bool, error) {
	for _, w := range s.withdrawals {
		if w.UserID == userID && w.Status == models.WithdrawalStatusPending && w.RequestedAt.After(since) {
			return true, nil
		}
	}
	return false, nil
}

func (s *memLedgerStore) UpdateStatus(ctx context.Context, id uuid.UUID, fromStatus, toStatus string, processedAt *time.Time) (*models.Withdrawal, error) {
	w, ok := s.withdrawals[id]
	if !ok {
		return nil, repository.ErrWithdrawalNotFound
	}
	if w.Status != fromStatus {
		return nil, repository.ErrStatusConflict
	}
	w.Status = toStatus
	w.ProcessedAt = processedAt
	return w, nil
}

func newFlow(store *memLedgerStore) (*WithdrawalService, *LedgerService) {
	ledger := NewLedgerService(store, store, store)
	withdrawals := NewWithdrawalService(store, ledger, 500, 100, 5*time.Minute)
	return withdrawals, ledger
}

func TestWithdrawalFlow_PendingHoldsBalance(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	store := newMemLedgerStore(1000, 0)
	withdrawals, ledger := newFlow(store)

	first, err := withdrawals.Submit(ctx, userID, models.PaymentMethodGCash, "0917xxxxxxx", "600")
	require.NoError(t, err)

	balance := ledger.Balance(ctx, userID)
	assert.Equal(t, int64(400), balance.Available)

	// Inside the cooldown window the duplicate guard fires first.
	_, err = withdrawals.Submit(ctx, userID, models.PaymentMethodGCash, "0917xxxxxxx", "500")
	assert.ErrorIs(t, err, ErrDuplicatePending)

	// With the pending request older than the window, the held points are
	// what reject the second request.
	store.withdrawals[first.ID].RequestedAt = time.Now().Add(-10 * time.Minute)
	_, err = withdrawals.Submit(ctx, userID, models.PaymentMethodGCash, "0917xxxxxxx", "500")
	assert.ErrorIs(t, err, ErrInsufficientBalance)
}

func TestWithdrawalFlow_RejectionRestoresBalance(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	store := newMemLedgerStore(1000, 0)
	withdrawals, ledger := newFlow(store)

	first, err := withdrawals.Submit(ctx, userID, models.PaymentMethodGCash, "0917xxxxxxx", "600")
	require.NoError(t, err)
	assert.Equal(t, int64(400), ledger.Balance(ctx, userID).Available)

	rejected, err := withdrawals.UpdateStatus(ctx, first.ID, models.WithdrawalStatusRejected)
	require.NoError(t, err)
	assert.NotNil(t, rejected.ProcessedAt)

	// Rejected requests stop counting against the balance.
	assert.Equal(t, int64(1000), ledger.Balance(ctx, userID).Available)

	store.withdrawals[first.ID].RequestedAt = time.Now().Add(-10 * time.Minute)
	_, err = withdrawals.Submit(ctx, userID, models.PaymentMethodPayPal, "payee@example.com", "500")
	assert.NoError(t, err)
}

func TestWithdrawalFlow_CompletionKeepsDeduction(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	store := newMemLedgerStore(1000, 0)
	withdrawals, ledger := newFlow(store)

	w, err := withdrawals.Submit(ctx, userID, models.PaymentMethodCrypto, "0xabc", "600")
	require.NoError(t, err)

	_, err = withdrawals.UpdateStatus(ctx, w.ID, models.WithdrawalStatusApproved)
	require.NoError(t, err)
	assert.Equal(t, int64(400), ledger.Balance(ctx, userID).Available)

	completed, err := withdrawals.UpdateStatus(ctx, w.ID, models.WithdrawalStatusCompleted)
	require.NoError(t, err)
	assert.NotNil(t, completed.ProcessedAt)
	assert.Equal(t, int64(400), ledger.Balance(ctx, userID).Available)
}

func TestWithdrawalFlow_ReferralBonusCountsAsEarned(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	store := newMemLedgerStore(450, 100)
	withdrawals, ledger := newFlow(store)

	balance := ledger.Balance(ctx, userID)
	assert.Equal(t, int64(550), balance.Earned)
	assert.Equal(t, int64(550), balance.Available)

	// 500 points clear the minimum only because of the referral bonus.
	w, err := withdrawals.Submit(ctx, userID, models.PaymentMethodGCash, "0917xxxxxxx", "500")
	require.NoError(t, err)
	assert.Equal(t, "5.00", w.Amount.StringFixed(2))
	assert.Equal(t, int64(50), ledger.Balance(ctx, userID).Available)
}
