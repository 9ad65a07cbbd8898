package models

import (
	"time"

	"gorm.io/gorm"
)

// Problem statuses. Transitions are one-way: pending advances to in_progress
// on the supplier's first response or first open, resolve forces resolved,
// and nothing moves a problem backwards.
const (
	StatusPending    = "pending"
	StatusInProgress = "in_progress"
	StatusResolved   = "resolved"
	StatusClosed     = "closed"
)

// Problem priorities. Stores may submit their own values; "normal" is the
// default when none is given.
const (
	PriorityNormal = "normal"
	PriorityHigh   = "high"
)

// Problem represents an issue reported by a store against a supplier order
type Problem struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	StoreID       uint       `gorm:"not null;index" json:"store_id"` // foreign key to stores table
	Store         Store      `gorm:"foreignKey:StoreID" json:"store"`
	Title         string     `gorm:"not null" json:"title"`
	Description   string     `gorm:"type:text;not null" json:"description"`
	OrderDate     *time.Time `json:"order_date"`
	SupplierOrder string     `json:"supplier_order"`
	Product       string     `json:"product"`
	Eurocode      string     `json:"eurocode"`
	Observations  string     `gorm:"type:text" json:"observations"`
	Priority      string     `gorm:"not null;default:'normal'" json:"priority"`
	Status        string     `gorm:"not null;default:'pending';index" json:"status"`

	// Per-side unread indicators. Posting a message flips the other side's
	// flag to false; an explicit mark-viewed sets the caller's own flag.
	ViewedByStore    bool `gorm:"not null;default:true" json:"viewed_by_store"`
	ViewedBySupplier bool `gorm:"not null;default:false" json:"viewed_by_supplier"`

	AttachmentS3Key *string `json:"attachment_s3_key,omitempty"`
	AttachmentURL   *string `gorm:"-" json:"attachment_url,omitempty"` // computed, presigned URL

	Response *Response `gorm:"foreignKey:ProblemID" json:"response,omitempty"`
	Messages []Message `gorm:"foreignKey:ProblemID" json:"messages,omitempty"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the Problem model
func (Problem) TableName() string {
	return "problems"
}

// IsValidStatus reports whether s is one of the persisted problem statuses.
func IsValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusInProgress, StatusResolved, StatusClosed:
		return true
	}
	return false
}
