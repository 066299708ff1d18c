package model

// Group bundles permissions; users gain capabilities only through
// membership (plus the admin staff flag, which bypasses gating).
type Group struct {
	ID          uint         `gorm:"primaryKey" json:"id"`
	Name        string       `gorm:"type:varchar(100);uniqueIndex;not null" json:"name" validate:"required"`
	Permissions []Permission `gorm:"many2many:group_permissions;" json:"permissions,omitempty"`
}

// Well-known group names, seeded at boot. Authorization never string-matches
// these; role resolution works over permission codes instead.
const (
	GroupWarehouseManager = "Warehouse Manager"
	GroupSalesRep         = "Sales Rep"
)

// DefaultGroupPermissions maps seed groups to their permission codes.
var DefaultGroupPermissions = map[string][]string{
	GroupWarehouseManager: {
		"product:view", "product:create", "product:update", "product:delete",
		"variation:adjust_stock",
		"supplier:view", "supplier:create", "supplier:update", "supplier:delete",
		"purchase:view", "purchase:create", "purchase:receive",
		"dashboard:view",
	},
	GroupSalesRep: {
		"product:view",
		"sales:view", "sales:create", "sales:fulfill",
		"dashboard:view",
	},
}
