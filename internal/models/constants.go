package models

// User roles.
const (
	RolePlayer = "player"
	RoleAdmin  = "admin"
)

// Withdrawal statuses.
const (
	WithdrawalStatusPending   = "pending"
	WithdrawalStatusApproved  = "approved"
	WithdrawalStatusRejected  = "rejected"
	WithdrawalStatusCompleted = "completed"
)

// ValidWithdrawalStatuses lists every status an administrator may target.
var ValidWithdrawalStatuses = map[string]struct{}{
	WithdrawalStatusPending:   {},
	WithdrawalStatusApproved:  {},
	WithdrawalStatusRejected:  {},
	WithdrawalStatusCompleted: {},
}

// CountsAgainstBalance reports whether a withdrawal in the given status
// still reduces the user's available points. Rejected requests stop
// counting; the points were never removed from the attempt log, so they
// simply become available again.
func CountsAgainstBalance(status string) bool {
	switch status {
	case WithdrawalStatusPending, WithdrawalStatusApproved, WithdrawalStatusCompleted:
		return true
	}
	return false
}

// Payment methods.
const (
	PaymentMethodGCash  = "gcash"
	PaymentMethodPayPal = "paypal"
	PaymentMethodCrypto = "crypto"
)

// ValidPaymentMethods lists the accepted payout channels.
var ValidPaymentMethods = map[string]struct{}{
	PaymentMethodGCash:  {},
	PaymentMethodPayPal: {},
	PaymentMethodCrypto: {},
}
