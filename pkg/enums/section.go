package enums

import "fmt"

// Section is a navigable area of the desk.
type Section string

const (
	SectionDashboard  Section = "dashboard"
	SectionPlaceOrder Section = "place_order"
	SectionOrderList  Section = "order_list"
	SectionInventory  Section = "inventory"
	SectionSupplier   Section = "supplier"
	SectionStore      Section = "store"
	SectionAdmin      Section = "admin"
)

var validSections = []Section{
	SectionDashboard,
	SectionPlaceOrder,
	SectionOrderList,
	SectionInventory,
	SectionSupplier,
	SectionStore,
	SectionAdmin,
}

// String implements fmt.Stringer.
func (s Section) String() string {
	return string(s)
}

// IsValid reports whether the value is a known Section.
func (s Section) IsValid() bool {
	for _, candidate := range validSections {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseSection converts raw input into a Section.
func ParseSection(value string) (Section, error) {
	for _, candidate := range validSections {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid section %q", value)
}
