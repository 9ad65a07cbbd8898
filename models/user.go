package models

import (
	"time"

	"gorm.io/gorm"
)

// Roles recognized by the portal. Admin accounts exist for provisioning
// but carry no rights over problems.
const (
	RoleStore    = "store"
	RoleSupplier = "supplier"
	RoleAdmin    = "admin"
)

// User represents an authenticated account (store, supplier or admin).
// Accounts are provisioned by an external collaborator; this service only
// reads them to resolve token identities to profiles.
type User struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Email     string         `gorm:"uniqueIndex;not null" json:"email"`
	Role      string         `gorm:"not null;default:'store'" json:"role"` // "store", "supplier" or "admin"
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the User model
func (User) TableName() string {
	return "users"
}
