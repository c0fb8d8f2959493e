package dto

import (
	"time"

	"github.com/mbendali/recruitai/internal/model"
)

type InterviewResponse struct {
	ID                uint                  `json:"id"`
	ApplicationID     uint                  `json:"application_id"`
	Status            model.InterviewStatus `json:"status"`
	StartTime         *time.Time            `json:"start_time,omitempty"`
	EndTime           *time.Time            `json:"end_time,omitempty"`
	AIEvaluationScore *float64              `json:"ai_evaluation_score,omitempty"`
	AIFeedback        string                `json:"ai_feedback,omitempty"`
	CreatedAt         time.Time             `json:"created_at"`
}

type ChatMessageResponse struct {
	ID          uint      `json:"id"`
	InterviewID uint      `json:"interview_id"`
	Content     string    `json:"content"`
	FromBot     bool      `json:"from_bot"`
	Timestamp   time.Time `json:"timestamp"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
