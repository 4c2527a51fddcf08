package enums

import "fmt"

// PaymentAttemptStatus tracks an individual gateway payment attempt.
type PaymentAttemptStatus string

const (
	PaymentAttemptStatusPending    PaymentAttemptStatus = "pending"
	PaymentAttemptStatusProcessing PaymentAttemptStatus = "processing"
	PaymentAttemptStatusCompleted  PaymentAttemptStatus = "completed"
	PaymentAttemptStatusFailed     PaymentAttemptStatus = "failed"
	PaymentAttemptStatusCancelled  PaymentAttemptStatus = "cancelled"
	PaymentAttemptStatusRefunded   PaymentAttemptStatus = "refunded"
)

var validPaymentAttemptStatuses = []PaymentAttemptStatus{
	PaymentAttemptStatusPending,
	PaymentAttemptStatusProcessing,
	PaymentAttemptStatusCompleted,
	PaymentAttemptStatusFailed,
	PaymentAttemptStatusCancelled,
	PaymentAttemptStatusRefunded,
}

// String implements fmt.Stringer.
func (p PaymentAttemptStatus) String() string {
	return string(p)
}

// IsValid reports whether the value is a known PaymentAttemptStatus.
func (p PaymentAttemptStatus) IsValid() bool {
	for _, candidate := range validPaymentAttemptStatuses {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParsePaymentAttemptStatus converts raw input into a PaymentAttemptStatus.
func ParsePaymentAttemptStatus(value string) (PaymentAttemptStatus, error) {
	for _, candidate := range validPaymentAttemptStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid payment attempt status %q", value)
}
