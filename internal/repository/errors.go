package repository

import "errors"

// Sentinel errors surfaced by the repositories. Services translate these
// into user-facing rejections; they never leak raw driver errors.
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailTaken         = errors.New("email already registered")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrCategoryNotFound   = errors.New("category not found")
	ErrQuestionNotFound   = errors.New("question not found")
	ErrOptionNotFound     = errors.New("option not found")
	ErrAlreadyAnswered    = errors.New("question already answered")
	ErrWithdrawalNotFound = errors.New("withdrawal not found")
	ErrStatusConflict     = errors.New("withdrawal status changed concurrently")
	ErrStatsNotFound      = errors.New("withdrawal stats not found")
	ErrSessionNotFound    = errors.New("session not found")
)
