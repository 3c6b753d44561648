package enums

import "fmt"

// Role identifies what a signed-in user is allowed to see.
type Role string

const (
	RoleAdmin         Role = "admin"
	RoleBranchUser    Role = "branch_user"
	RoleInventoryUser Role = "inventory_user"
	RoleSupplier      Role = "supplier"
	RoleStoreUser     Role = "store_user"
)

var validRoles = []Role{
	RoleAdmin,
	RoleBranchUser,
	RoleInventoryUser,
	RoleSupplier,
	RoleStoreUser,
}

// String implements fmt.Stringer.
func (r Role) String() string {
	return string(r)
}

// IsValid reports whether the value is a known Role.
func (r Role) IsValid() bool {
	for _, candidate := range validRoles {
		if candidate == r {
			return true
		}
	}
	return false
}

// ParseRole converts raw input into a Role.
func ParseRole(value string) (Role, error) {
	for _, candidate := range validRoles {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid role %q", value)
}

// Roles returns the known roles in declaration order.
func Roles() []Role {
	return append([]Role(nil), validRoles...)
}
