package models

import (
	"time"

	"github.com/google/uuid"
)

// User is an account on the trivia platform.
type User struct {
	ID           uuid.UUID  `db:"id" json:"id"`
	Email        string     `db:"email" json:"email"`
	Username     string     `db:"username" json:"username"`
	PasswordHash string     `db:"password_hash" json:"-"`
	Role         string     `db:"role" json:"role"`
	ReferralCode string     `db:"referral_code" json:"referral_code"`
	ReferredBy   *uuid.UUID `db:"referred_by" json:"referred_by,omitempty"`
	IsActive     bool       `db:"is_active" json:"is_active"`
	LastLoginAt  *time.Time `db:"last_login_at" json:"last_login_at,omitempty"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updated_at"`
}

// Profile keeps the player-facing part of an account, including the
// referral bonus that credits the points ledger.
type Profile struct {
	UserID              uuid.UUID `db:"user_id" json:"user_id"`
	DisplayName         string    `db:"display_name" json:"display_name"`
	ReferralBonusPoints int64     `db:"referral_bonus_points" json:"referral_bonus_points"`
	ReferralCount       int       `db:"referral_count" json:"referral_count"`
	UpdatedAt           time.Time `db:"updated_at" json:"updated_at"`
}

// Session is a stored refresh-token session.
type Session struct {
	ID           uuid.UUID `db:"id" json:"id"`
	UserID       uuid.UUID `db:"user_id" json:"user_id"`
	RefreshToken string    `db:"refresh_token" json:"refresh_token"`
	UserAgent    *string   `db:"user_agent" json:"user_agent,omitempty"`
	IPAddress    *string   `db:"ip_address" json:"ip_address,omitempty"`
	ExpiresAt    time.Time `db:"expires_at" json:"expires_at"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// GameStats summarizes a user's play history.
type GameStats struct {
	TotalAttempts int     `db:"total_attempts" json:"total_attempts"`
	Wins          int     `db:"wins" json:"wins"`
	WinRate       float64 `json:"win_rate"`
}

// LeaderboardEntry is one row of the top-earners leaderboard.
type LeaderboardEntry struct {
	UserID       uuid.UUID `db:"user_id" json:"user_id"`
	Username     string    `db:"username" json:"username"`
	PointsEarned int64     `db:"points_earned" json:"points_earned"`
	Wins         int       `db:"wins" json:"wins"`
}
