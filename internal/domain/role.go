package domain

import "strings"

// EmployeeRole is a closed enumeration mapping each role to a fixed
// permission set.
type EmployeeRole string

const (
	RoleManager         EmployeeRole = "Manager"
	RoleSupervisor      EmployeeRole = "Supervisor"
	RoleWarehouseWorker EmployeeRole = "Warehouse Worker"
	RoleAccountant      EmployeeRole = "Accountant"
	RoleSalesRep        EmployeeRole = "Sales Representative"
	RoleSupport         EmployeeRole = "Customer Support"
	RoleAdmin           EmployeeRole = "Administrator"
)

var rolePermissions = map[EmployeeRole][]string{
	RoleManager: {
		"view_all", "edit_all", "delete_all",
		"manage_employees", "view_reports", "approve_orders",
	},
	RoleSupervisor: {
		"view_all", "edit_products", "manage_orders",
		"view_reports", "manage_inventory",
	},
	RoleWarehouseWorker: {
		"view_products", "manage_inventory", "view_orders",
		"update_order_status",
	},
	RoleAccountant: {
		"view_reports", "view_orders", "view_products",
		"financial_operations",
	},
	RoleSalesRep: {
		"view_products", "create_orders", "view_customers",
		"update_customer_info",
	},
	RoleSupport: {
		"view_products", "view_orders", "update_order_status",
		"view_customers",
	},
	RoleAdmin: {
		"view_all", "edit_all", "delete_all",
		"manage_system", "configure_settings",
	},
}

// Permissions returns a copy of the role's permission set.
func (r EmployeeRole) Permissions() []string {
	perms := rolePermissions[r]
	out := make([]string, len(perms))
	copy(out, perms)
	return out
}

func (r EmployeeRole) HasPermission(permission string) bool {
	for _, p := range rolePermissions[r] {
		if p == permission {
			return true
		}
	}
	return false
}

func (r EmployeeRole) Valid() bool {
	_, ok := rolePermissions[r]
	return ok
}

func AllEmployeeRoles() []EmployeeRole {
	return []EmployeeRole{
		RoleManager, RoleSupervisor, RoleWarehouseWorker, RoleAccountant,
		RoleSalesRep, RoleSupport, RoleAdmin,
	}
}

// ParseEmployeeRole parses a role name, case-insensitively.
func ParseEmployeeRole(s string) (EmployeeRole, error) {
	for _, known := range AllEmployeeRoles() {
		if strings.EqualFold(s, string(known)) {
			return known, nil
		}
	}
	return "", newValidationError("unknown employee role: %q", s)
}
