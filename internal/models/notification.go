package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Notification is a persisted event for a user, mirrored over the
// websocket channel when the user is connected.
type Notification struct {
	ID        uuid.UUID       `db:"id" json:"id"`
	UserID    uuid.UUID       `db:"user_id" json:"user_id"`
	Event     string          `db:"event" json:"event"`
	Payload   json.RawMessage `db:"payload" json:"payload"`
	IsRead    bool            `db:"is_read" json:"is_read"`
	CreatedAt time.Time       `db:"created_at" json:"created_at"`
}

// Notification events.
const (
	EventWithdrawalStatus = "withdrawal_status"
	EventReferralCredited = "referral_credited"
)
