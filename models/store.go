package models

import (
	"time"

	"gorm.io/gorm"
)

// Store represents a retail store profile linked to a store user account
type Store struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	UserID        uint           `gorm:"uniqueIndex;not null" json:"user_id"` // foreign key to users table
	StoreName     string         `gorm:"not null" json:"store_name"`
	ContactPerson string         `json:"contact_person"`
	Phone         string         `json:"phone"`
	Address       string         `json:"address"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the Store model
func (Store) TableName() string {
	return "stores"
}
