package models

import (
	"time"

	"gorm.io/gorm"
)

// Supplier represents a supplier profile linked to a supplier user account
type Supplier struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	UserID        uint           `gorm:"uniqueIndex;not null" json:"user_id"` // foreign key to users table
	SupplierName  string         `gorm:"not null" json:"supplier_name"`
	ContactPerson string         `json:"contact_person"`
	Phone         string         `json:"phone"`
	Email         string         `json:"email"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the Supplier model
func (Supplier) TableName() string {
	return "suppliers"
}
