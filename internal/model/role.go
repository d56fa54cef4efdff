package model

// Role represents user roles in the system
type Role struct {
	ID          uint        `gorm:"primaryKey" json:"id"`
	Code        string      `gorm:"type:varchar(50);uniqueIndex;not null" json:"code"` // ADMIN, PHARMACIST, CASHIER
	Name        string      `gorm:"type:varchar(100)" json:"name"`
	Description string      `gorm:"type:text" json:"description"`
	Privileges  []Privilege `gorm:"many2many:role_privileges;" json:"privileges,omitempty"`
}

// Role codes as constants
const (
	RoleAdmin      = "ADMIN"
	RolePharmacist = "PHARMACIST"
	RoleCashier    = "CASHIER"
)

// DefaultRoles defines the default roles in the system
var DefaultRoles = []Role{
	{
		Code:        RoleAdmin,
		Name:        "Administrator",
		Description: "Full system access with all privileges",
	},
	{
		Code:        RolePharmacist,
		Name:        "Pharmacist",
		Description: "Inventory and sales management, report access",
	},
	{
		Code:        RoleCashier,
		Name:        "Cashier",
		Description: "Point-of-sale operation and catalog lookup",
	},
}

// RolePrivilegeCodes is the single source of truth for which privileges a
// role carries. Seeding, user creation, and user updates all read this
// table; no other role-to-privilege mapping exists.
var RolePrivilegeCodes = map[string][]string{
	RoleAdmin: {
		"manage_inventory", "view_inventory",
		"manage_sales", "process_sales",
		"view_reports", "manage_users",
	},
	RolePharmacist: {"manage_inventory", "view_inventory", "manage_sales", "view_reports"},
	RoleCashier:    {"process_sales", "view_inventory"},
}
