package model

import (
	"time"

	"gorm.io/gorm"
)

// ChatMessage is one turn in an interview conversation. Messages are
// append-only: they are never updated or deleted individually, and retrieval
// is always ordered by timestamp ascending.
type ChatMessage struct {
	ID          uint           `gorm:"primarykey" json:"id"`
	InterviewID uint           `json:"interview_id" gorm:"not null;index"`
	Content     string         `json:"content" gorm:"type:text;not null"`
	FromBot     bool           `json:"from_bot" gorm:"not null"`
	Timestamp   time.Time      `json:"timestamp" gorm:"not null;index"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}
