package enums

import "fmt"

// CheckoutState is the orchestrator phase for a session.
type CheckoutState string

const (
	CheckoutStateIdle       CheckoutState = "idle"
	CheckoutStateValidating CheckoutState = "validating"
	CheckoutStateSubmitting CheckoutState = "submitting"
)

var validCheckoutStates = []CheckoutState{
	CheckoutStateIdle,
	CheckoutStateValidating,
	CheckoutStateSubmitting,
}

// String implements fmt.Stringer.
func (c CheckoutState) String() string {
	return string(c)
}

// IsValid reports whether the value is a known CheckoutState.
func (c CheckoutState) IsValid() bool {
	for _, candidate := range validCheckoutStates {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseCheckoutState converts raw input into a CheckoutState.
func ParseCheckoutState(value string) (CheckoutState, error) {
	for _, candidate := range validCheckoutStates {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid checkout state %q", value)
}
