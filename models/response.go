package models

import (
	"time"
)

// Response is the supplier's single formal reply to a problem. The unique
// index on problem_id enforces latest-wins: a second reply overwrites the
// existing row instead of appending.
type Response struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	ProblemID    uint      `gorm:"uniqueIndex;not null" json:"problem_id"` // foreign key to problems table
	SupplierID   uint      `gorm:"not null;index" json:"supplier_id"`      // foreign key to suppliers table
	Supplier     Supplier  `gorm:"foreignKey:SupplierID" json:"supplier"`
	ResponseText string    `gorm:"type:text;not null" json:"response_text"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// TableName specifies the table name for the Response model
func (Response) TableName() string {
	return "responses"
}
