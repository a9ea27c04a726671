package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"

	"github.com/phtrivia/phtrivia-backend/internal/models"
)

// ErrorResponse is the standard error envelope.
type ErrorResponse struct {
	Error string `json:"error"`
}

// SuccessResponse is the standard success envelope.
type SuccessResponse struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// UserResponse is the public view of a user, without the password hash.
type UserResponse struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	Username     string    `json:"username"`
	Role         string    `json:"role"`
	ReferralCode string    `json:"referral_code"`
	CreatedAt    time.Time `json:"created_at"`
}

// NewUserResponse maps a user model to its public view.
func NewUserResponse(user *models.User) *UserResponse {
	resp := &UserResponse{}
	if err := copier.Copy(resp, user); err != nil {
		return &UserResponse{ID: user.ID, Email: user.Email, Username: user.Username, Role: user.Role}
	}
	return resp
}

// AuthResponse is returned from register, login and refresh.
type AuthResponse struct {
	User         *UserResponse `json:"user"`
	AccessToken  string        `json:"access_token"`
	RefreshToken string        `json:"refresh_token"`
}

// WithdrawalResponse is the wire form of a withdrawal. Amount is
// serialized as a fixed two-decimal string.
type WithdrawalResponse struct {
	ID             uuid.UUID  `json:"id"`
	UserID         uuid.UUID  `json:"user_id"`
	Amount         string     `json:"amount"`
	PointsDeducted int64      `json:"points_deducted"`
	PaymentMethod  string     `json:"payment_method"`
	PaymentDetails string     `json:"payment_details"`
	Status         string     `json:"status"`
	RequestedAt    time.Time  `json:"requested_at"`
	ProcessedAt    *time.Time `json:"processed_at,omitempty"`
}

// NewWithdrawalResponse maps a withdrawal model to its wire form.
func NewWithdrawalResponse(w *models.Withdrawal) *WithdrawalResponse {
	resp := &WithdrawalResponse{}
	if err := copier.Copy(resp, w); err != nil {
		resp.ID = w.ID
		resp.UserID = w.UserID
		resp.PointsDeducted = w.PointsDeducted
		resp.PaymentMethod = w.PaymentMethod
		resp.PaymentDetails = w.PaymentDetails
		resp.Status = w.Status
		resp.RequestedAt = w.RequestedAt
		resp.ProcessedAt = w.ProcessedAt
	}
	resp.Amount = w.Amount.StringFixed(2)
	return resp
}

// NewWithdrawalListResponse maps a slice of withdrawals.
func NewWithdrawalListResponse(ws []models.Withdrawal) []WithdrawalResponse {
	out := make([]WithdrawalResponse, 0, len(ws))
	for i := range ws {
		out = append(out, *NewWithdrawalResponse(&ws[i]))
	}
	return out
}

// SubmitWithdrawalResponse mirrors the submission contract: success plus
// the created withdrawal, or an error string naming the failed check.
type SubmitWithdrawalResponse struct {
	Success    bool                `json:"success"`
	Error      string              `json:"error,omitempty"`
	Withdrawal *WithdrawalResponse `json:"withdrawal,omitempty"`
}

// ProfileResponse aggregates a user's identity, balance, game stats and
// recent activity for the profile page.
type ProfileResponse struct {
	User        *UserResponse        `json:"user"`
	DisplayName string               `json:"display_name"`
	Balance     *models.Balance      `json:"balance"`
	GameStats   *models.GameStats    `json:"game_stats,omitempty"`
	Attempts    []models.Attempt     `json:"recent_attempts"`
	Withdrawals []WithdrawalResponse `json:"recent_withdrawals"`
}

// AnswerResponse is returned from an answer submission.
type AnswerResponse struct {
	Correct      bool            `json:"correct"`
	PointsEarned int64           `json:"points_earned"`
	Balance      *models.Balance `json:"balance"`
}
