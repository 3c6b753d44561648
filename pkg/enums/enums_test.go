package enums

import "testing"

func TestParseRole(t *testing.T) {
	for _, role := range Roles() {
		got, err := ParseRole(role.String())
		if err != nil || got != role {
			t.Fatalf("round trip failed for %q: %v", role, err)
		}
	}
	if _, err := ParseRole("ADMIN"); err == nil {
		t.Fatalf("role parsing is case sensitive")
	}
}

func TestPaymentMethodDefault(t *testing.T) {
	got, err := ParsePaymentMethodOrDefault("", PaymentMethodUPI)
	if err != nil || got != PaymentMethodUPI {
		t.Fatalf("expected UPI fallback, got %q err=%v", got, err)
	}
	if _, err := ParsePaymentMethodOrDefault("Bitcoin", PaymentMethodUPI); err == nil {
		t.Fatalf("unknown payment method should fail")
	}
}

func TestOrderStatusValidity(t *testing.T) {
	if !OrderStatusProcessed.IsValid() {
		t.Fatalf("Processed should be valid")
	}
	if OrderStatus("Shipped").IsValid() {
		t.Fatalf("Shipped is not a known status")
	}
}

func TestBranchesCopy(t *testing.T) {
	branches := Branches()
	branches[0] = "Nowhere"
	if Branches()[0] != BranchMain {
		t.Fatalf("Branches must return a copy")
	}
}
