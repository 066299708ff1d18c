package model

import (
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// User represents an authenticated user in the system
type User struct {
	BaseModel
	Username string `gorm:"type:varchar(150);uniqueIndex;not null" json:"username" validate:"required"`
	Email    string `gorm:"type:varchar(255);uniqueIndex;not null" json:"email" validate:"required,email"`
	Password string `gorm:"type:varchar(255);not null" json:"-"` // Hidden from JSON

	// IsAdmin is the staff flag: admins bypass permission gates entirely.
	IsAdmin bool `gorm:"default:false" json:"is_admin"`

	Groups []Group `gorm:"many2many:user_groups;" json:"groups,omitempty"`

	TokenVersion string     `gorm:"type:varchar(255);default:''" json:"-"` // Single session enforcement
	LastSeenAt   *time.Time `json:"last_seen_at,omitempty"`
}

// SetPassword hashes and sets the user's password
func (u *User) SetPassword(password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.Password = string(hashedPassword)
	return nil
}

// CheckPassword verifies if the provided password matches the stored hash
func (u *User) CheckPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password))
	return err == nil
}

// HasPermission checks whether any of the user's groups grants the code.
// Admins implicitly hold every permission.
func (u *User) HasPermission(code string) bool {
	if u.IsAdmin {
		return true
	}
	for _, g := range u.Groups {
		for _, p := range g.Permissions {
			if p.Code == code {
				return true
			}
		}
	}
	return false
}

// PermissionCodes returns the deduplicated permission codes across all groups
func (u *User) PermissionCodes() []string {
	seen := make(map[string]bool)
	var codes []string
	for _, g := range u.Groups {
		for _, p := range g.Permissions {
			if !seen[p.Code] {
				seen[p.Code] = true
				codes = append(codes, p.Code)
			}
		}
	}
	return codes
}

// Role is the derived view used by dashboards to pick a landing panel.
type Role string

const (
	RoleAdmin            Role = "admin"
	RoleWarehouseManager Role = "warehouse_manager"
	RoleSalesRep         Role = "sales_rep"
)

// ResolveRole derives the user's dashboard role from capabilities, in fixed
// precedence: admin > warehouse manager > sales rep. Users with no matching
// capability fall back to the admin view, matching the historical client
// behavior. Group names are never consulted.
func (u *User) ResolveRole() Role {
	if u.IsAdmin {
		return RoleAdmin
	}
	if u.HasPermission("purchase:receive") {
		return RoleWarehouseManager
	}
	if u.HasPermission("sales:fulfill") {
		return RoleSalesRep
	}
	return RoleAdmin
}

// UserResponse is used for API responses (without sensitive data)
type UserResponse struct {
	ID         uuid.UUID  `json:"id"`
	Username   string     `json:"username"`
	Email      string     `json:"email"`
	IsAdmin    bool       `json:"is_admin"`
	Groups     []Group    `json:"groups"`
	Role       Role       `json:"role"`
	LastSeenAt *time.Time `json:"last_seen_at,omitempty"`
}

// ToResponse converts User to UserResponse
func (u *User) ToResponse() UserResponse {
	groups := u.Groups
	if groups == nil {
		groups = []Group{}
	}
	return UserResponse{
		ID:         u.ID,
		Username:   u.Username,
		Email:      u.Email,
		IsAdmin:    u.IsAdmin,
		Groups:     groups,
		Role:       u.ResolveRole(),
		LastSeenAt: u.LastSeenAt,
	}
}
