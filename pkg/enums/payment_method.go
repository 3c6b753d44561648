package enums

import "fmt"

// PaymentMethod describes how the customer settles an order.
type PaymentMethod string

const (
	PaymentMethodUPI  PaymentMethod = "UPI"
	PaymentMethodCard PaymentMethod = "Card"
	PaymentMethodCash PaymentMethod = "Cash"
)

var validPaymentMethods = []PaymentMethod{
	PaymentMethodUPI,
	PaymentMethodCard,
	PaymentMethodCash,
}

// String implements fmt.Stringer.
func (p PaymentMethod) String() string {
	return string(p)
}

// IsValid reports whether the value is a known PaymentMethod.
func (p PaymentMethod) IsValid() bool {
	for _, candidate := range validPaymentMethods {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParsePaymentMethod converts raw input into a PaymentMethod.
func ParsePaymentMethod(value string) (PaymentMethod, error) {
	for _, candidate := range validPaymentMethods {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid payment method %q", value)
}

// ParsePaymentMethodOrDefault returns fallback when value is blank.
func ParsePaymentMethodOrDefault(value string, fallback PaymentMethod) (PaymentMethod, error) {
	if value == "" {
		return fallback, nil
	}
	return ParsePaymentMethod(value)
}
