package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Withdrawal is a user's request to convert points into currency.
// Created as pending by the player-facing endpoint; afterwards only an
// administrator status transition may touch it.
type Withdrawal struct {
	ID             uuid.UUID       `db:"id" json:"id"`
	UserID         uuid.UUID       `db:"user_id" json:"user_id"`
	Amount         decimal.Decimal `db:"amount" json:"amount"`
	PointsDeducted int64           `db:"points_deducted" json:"points_deducted"`
	PaymentMethod  string          `db:"payment_method" json:"payment_method"`
	PaymentDetails string          `db:"payment_details" json:"payment_details"`
	Status         string          `db:"status" json:"status"`
	RequestedAt    time.Time       `db:"requested_at" json:"requested_at"`
	ProcessedAt    *time.Time      `db:"processed_at" json:"processed_at,omitempty"`
}

// WithdrawalStats is the optional precomputed per-user ledger aggregate.
// When a row exists it is the primary balance path; the raw attempt and
// withdrawal logs remain the fallback.
type WithdrawalStats struct {
	UserID    uuid.UUID `db:"user_id" json:"user_id"`
	Earned    int64     `db:"earned" json:"earned"`
	Used      int64     `db:"used" json:"used"`
	Available int64     `db:"available" json:"available"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// Balance is the derived points position of a user.
type Balance struct {
	Earned    int64 `json:"earned"`
	Used      int64 `json:"used"`
	Available int64 `json:"available"`
}
