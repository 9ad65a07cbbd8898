package models

import (
	"time"
)

// Message represents one entry in a problem's conversation thread.
// The thread is append-only: rows are never updated or deleted, and
// insertion order (created_at ascending) is the only defined order.
type Message struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	ProblemID  uint      `gorm:"not null;index" json:"problem_id"` // foreign key to problems table
	SenderID   uint      `gorm:"not null;index" json:"sender_id"`  // foreign key to users table
	Sender     User      `gorm:"foreignKey:SenderID" json:"sender"`
	AuthorRole string    `gorm:"not null" json:"author_role"` // "store" or "supplier"
	Text       string    `gorm:"type:text;not null" json:"text"`
	CreatedAt  time.Time `json:"created_at"`
}

// TableName specifies the table name for the Message model
func (Message) TableName() string {
	return "messages"
}
