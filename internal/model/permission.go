package model

// Permission represents a capability that can be granted through groups.
// Read-only reference data, seeded at boot.
type Permission struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Code string `gorm:"type:varchar(50);uniqueIndex;not null" json:"code"` // e.g., "product:create"
	Name string `gorm:"type:varchar(100)" json:"name"`                     // e.g., "Create Product"
}

// Default permissions for the system
var DefaultPermissions = []Permission{
	// Catalog
	{Code: "product:view", Name: "View Product"},
	{Code: "product:create", Name: "Create Product"},
	{Code: "product:update", Name: "Update Product"},
	{Code: "product:delete", Name: "Delete Product"},
	{Code: "variation:adjust_stock", Name: "Adjust Variation Stock"},
	// Suppliers
	{Code: "supplier:view", Name: "View Supplier"},
	{Code: "supplier:create", Name: "Create Supplier"},
	{Code: "supplier:update", Name: "Update Supplier"},
	{Code: "supplier:delete", Name: "Delete Supplier"},
	// Purchase orders
	{Code: "purchase:view", Name: "View Purchase Order"},
	{Code: "purchase:create", Name: "Create Purchase Order"},
	{Code: "purchase:receive", Name: "Submit/Receive Purchase Order"},
	// Sales orders
	{Code: "sales:view", Name: "View Sales Order"},
	{Code: "sales:create", Name: "Create Sales Order"},
	{Code: "sales:fulfill", Name: "Fulfill Sales Order"},
	// User management (admin only by default)
	{Code: "user:view", Name: "View User"},
	{Code: "user:create", Name: "Create User"},
	{Code: "user:update", Name: "Update User"},
	{Code: "user:delete", Name: "Delete User"},
	{Code: "user:assign_groups", Name: "Assign User Groups"},
	// Dashboard
	{Code: "dashboard:view", Name: "View Dashboard"},
}
