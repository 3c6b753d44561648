package enums

import "fmt"

// Branch names a physical location stock can move between.
type Branch string

const (
	BranchMain     Branch = "Main Branch"
	BranchCity     Branch = "City Branch"
	BranchDowntown Branch = "Downtown Branch"
)

var validBranches = []Branch{
	BranchMain,
	BranchCity,
	BranchDowntown,
}

// String implements fmt.Stringer.
func (b Branch) String() string {
	return string(b)
}

// IsValid reports whether the value is a known Branch.
func (b Branch) IsValid() bool {
	for _, candidate := range validBranches {
		if candidate == b {
			return true
		}
	}
	return false
}

// ParseBranch converts raw input into a Branch.
func ParseBranch(value string) (Branch, error) {
	for _, candidate := range validBranches {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid branch %q", value)
}

// Branches returns the known branches in declaration order.
func Branches() []Branch {
	return append([]Branch(nil), validBranches...)
}
