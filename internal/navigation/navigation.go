package navigation

import "github.com/angelmondragon/orderdesk/pkg/enums"

var sectionRoles = map[enums.Section][]enums.Role{
	enums.SectionDashboard:  {enums.RoleAdmin},
	enums.SectionPlaceOrder: {enums.RoleAdmin, enums.RoleBranchUser},
	enums.SectionOrderList:  {enums.RoleAdmin, enums.RoleBranchUser, enums.RoleInventoryUser},
	enums.SectionInventory:  {enums.RoleAdmin, enums.RoleInventoryUser},
	enums.SectionSupplier:   {enums.RoleAdmin, enums.RoleSupplier},
	enums.SectionStore:      {enums.RoleAdmin, enums.RoleStoreUser},
	enums.SectionAdmin:      {enums.RoleAdmin},
}

var landing = map[enums.Role]enums.Section{
	enums.RoleAdmin:         enums.SectionAdmin,
	enums.RoleBranchUser:    enums.SectionPlaceOrder,
	enums.RoleInventoryUser: enums.SectionInventory,
	enums.RoleSupplier:      enums.SectionSupplier,
	enums.RoleStoreUser:     enums.SectionStore,
}

// menuOrder is the order sections appear in the navigation bar.
var menuOrder = []enums.Section{
	enums.SectionDashboard,
	enums.SectionPlaceOrder,
	enums.SectionOrderList,
	enums.SectionInventory,
	enums.SectionSupplier,
	enums.SectionStore,
	enums.SectionAdmin,
}

// Menu is what a role sees after sign-in.
type Menu struct {
	Role     enums.Role      `json:"role"`
	Landing  enums.Section   `json:"landing"`
	Sections []enums.Section `json:"sections"`
}

// CanAccess reports whether role may open section. Unknown roles and sections are refused.
func CanAccess(role enums.Role, section enums.Section) bool {
	for _, allowed := range sectionRoles[section] {
		if allowed == role {
			return true
		}
	}
	return false
}

// VisibleSections lists the sections role may open, in menu order.
func VisibleSections(role enums.Role) []enums.Section {
	out := []enums.Section{}
	for _, section := range menuOrder {
		if CanAccess(role, section) {
			out = append(out, section)
		}
	}
	return out
}

// LandingSection is where role is sent after sign-in.
func LandingSection(role enums.Role) (enums.Section, bool) {
	section, ok := landing[role]
	return section, ok
}

func MenuFor(role enums.Role) Menu {
	section, _ := LandingSection(role)
	return Menu{Role: role, Landing: section, Sections: VisibleSections(role)}
}
