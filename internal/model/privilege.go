package model

// Privilege represents a permission that can be assigned to users
type Privilege struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Code string `gorm:"type:varchar(50);uniqueIndex;not null" json:"code"` // e.g., "manage_inventory"
	Name string `gorm:"type:varchar(100)" json:"name"`                     // e.g., "Manage Inventory"
}

// Default privileges for the system
var DefaultPrivileges = []Privilege{
	{Code: "manage_inventory", Name: "Manage Inventory"},
	{Code: "view_inventory", Name: "View Inventory"},
	{Code: "manage_sales", Name: "Manage Sales"},
	{Code: "process_sales", Name: "Process Sales"},
	{Code: "view_reports", Name: "View Reports"},
	{Code: "manage_users", Name: "Manage Users"},
}
