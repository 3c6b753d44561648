package enums

import "fmt"

// CheckoutOutcome is the terminal state reported for a checkout.
type CheckoutOutcome string

const (
	CheckoutOutcomeCompleted       CheckoutOutcome = "completed"
	CheckoutOutcomePartiallyFailed CheckoutOutcome = "partially_failed"
	CheckoutOutcomeRejected        CheckoutOutcome = "rejected"
)

var validCheckoutOutcomes = []CheckoutOutcome{
	CheckoutOutcomeCompleted,
	CheckoutOutcomePartiallyFailed,
	CheckoutOutcomeRejected,
}

// String implements fmt.Stringer.
func (c CheckoutOutcome) String() string {
	return string(c)
}

// IsValid reports whether the value is a known CheckoutOutcome.
func (c CheckoutOutcome) IsValid() bool {
	for _, candidate := range validCheckoutOutcomes {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseCheckoutOutcome converts raw input into a CheckoutOutcome.
func ParseCheckoutOutcome(value string) (CheckoutOutcome, error) {
	for _, candidate := range validCheckoutOutcomes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid checkout outcome %q", value)
}
