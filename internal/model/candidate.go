package model

import (
	"time"

	"gorm.io/gorm"
)

type Candidate struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	FirstName string         `json:"first_name" gorm:"not null"`
	LastName  string         `json:"last_name" gorm:"not null"`
	Email     string         `json:"email,omitempty" gorm:"index"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// FullName returns the candidate's display name as used in chat prompts.
func (c Candidate) FullName() string {
	return c.FirstName + " " + c.LastName
}
