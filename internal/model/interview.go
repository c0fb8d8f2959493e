package model

import (
	"time"

	"gorm.io/gorm"
)

// InterviewStatus enumerates the lifecycle states of an interview.
type InterviewStatus string

const (
	InterviewScheduled       InterviewStatus = "SCHEDULED"
	InterviewInProgress      InterviewStatus = "IN_PROGRESS"
	InterviewCompleted       InterviewStatus = "COMPLETED"
	InterviewCancelled       InterviewStatus = "CANCELLED"
	InterviewPendingFeedback InterviewStatus = "PENDING_FEEDBACK"
)

// IsTerminal reports whether no further status transition is allowed.
func (s InterviewStatus) IsTerminal() bool {
	return s == InterviewCompleted || s == InterviewCancelled
}

type Interview struct {
	ID                uint            `gorm:"primarykey" json:"id"`
	ApplicationID     uint            `json:"application_id" gorm:"not null;index"`
	Application       Application     `json:"application,omitempty" gorm:"foreignKey:ApplicationID"`
	Status            InterviewStatus `json:"status" gorm:"type:varchar(32);not null;default:'SCHEDULED'"`
	StartTime         *time.Time      `json:"start_time,omitempty"`
	EndTime           *time.Time      `json:"end_time,omitempty"`
	AIEvaluationScore *float64        `json:"ai_evaluation_score,omitempty"`
	AIFeedback        string          `json:"ai_feedback,omitempty" gorm:"type:text"`
	ChatMessages      []ChatMessage   `json:"chat_messages,omitempty" gorm:"foreignKey:InterviewID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
	DeletedAt         gorm.DeletedAt  `gorm:"index" json:"-"`
}
