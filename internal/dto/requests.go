package dto

// RegisterRequest represents the signup payload.
type RegisterRequest struct {
	Email        string `json:"email" binding:"required"`
	Password     string `json:"password" binding:"required"`
	Username     string `json:"username"`
	DisplayName  string `json:"display_name"`
	ReferralCode string `json:"referral_code"`
}

// LoginRequest represents the login payload.
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// RefreshRequest carries a refresh token for rotation or logout.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// SubmitAnswerRequest represents an answer attempt for a question.
type SubmitAnswerRequest struct {
	QuestionID string `json:"question_id" binding:"required"`
	OptionID   string `json:"option_id" binding:"required"`
}

// SubmitWithdrawalRequest represents a withdrawal submission. Points is
// a string on the wire so non-numeric input is rejected by the service
// with a typed error rather than a generic binding failure.
type SubmitWithdrawalRequest struct {
	Points         string `json:"points" binding:"required"`
	PaymentMethod  string `json:"payment_method" binding:"required"`
	PaymentDetails string `json:"payment_details"`
}

// UpdateWithdrawalStatusRequest represents an admin status change.
type UpdateWithdrawalStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// CreateCategoryRequest represents a category create or update.
type CreateCategoryRequest struct {
	Name     string `json:"name" binding:"required"`
	IsActive *bool  `json:"is_active"`
}

// CreateQuestionRequest represents a question create.
type CreateQuestionRequest struct {
	CategoryID   string   `json:"category_id" binding:"required"`
	Text         string   `json:"text" binding:"required"`
	Points       int64    `json:"points" binding:"required"`
	Options      []string `json:"options" binding:"required"`
	CorrectIndex int      `json:"correct_index"`
	IsActive     *bool    `json:"is_active"`
}

// UpdateQuestionRequest represents a question update. Options are not
// editable in place, a changed answer set needs a new question.
type UpdateQuestionRequest struct {
	Text     string `json:"text" binding:"required"`
	Points   int64  `json:"points" binding:"required"`
	IsActive *bool  `json:"is_active"`
}

// DraftQuestionsRequest asks the AI client to draft quiz questions.
type DraftQuestionsRequest struct {
	Topic string `json:"topic" binding:"required"`
	Count int    `json:"count"`
}
