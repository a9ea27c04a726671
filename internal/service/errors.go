package service

import "errors"

// Auth errors.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// Withdrawal admission rejections. Each one is a typed, user-facing
// reason; none of them is an internal fault.
var (
	ErrEmptyPaymentDetails   = errors.New("empty-details: payment details are required")
	ErrInvalidPaymentDetails = errors.New("invalid-details: payment details exceed the allowed length")
	ErrInvalidAmount         = errors.New("invalid-amount: points must be a positive integer")
	ErrDuplicatePending      = errors.New("duplicate-pending: a pending withdrawal request already exists")
	ErrBelowMinimum          = errors.New("below-minimum: requested points are below the minimum withdrawal")
	ErrInsufficientBalance   = errors.New("insufficient-balance: requested points exceed available balance")
	ErrInvalidPaymentMethod  = errors.New("invalid-method: unsupported payment method")
)

// Status machine errors.
var (
	ErrInvalidTransition = errors.New("status transition not permitted")
	ErrUnknownStatus     = errors.New("unknown withdrawal status")
)

// Game errors.
var (
	ErrQuestionInactive = errors.New("question is not active")
)
