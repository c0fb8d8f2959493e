package dto

import "time"

// ScheduleInterviewRequest is the payload for scheduling an interview against
// an application. StartTime is an optional proposed slot; defaults to now.
type ScheduleInterviewRequest struct {
	StartTime *time.Time `json:"start_time"`
}

// CompleteInterviewRequest optionally carries a manually assigned score and
// feedback when a recruiter closes an interview without the AI evaluation.
type CompleteInterviewRequest struct {
	Score    *float64 `json:"score" binding:"omitempty,gte=0,lte=100"`
	Feedback string   `json:"feedback"`
}

// PostChatMessageRequest is a single candidate message sent to the interview chat.
type PostChatMessageRequest struct {
	Content string `json:"content" binding:"required"`
}

// SaveMessageRequest persists an arbitrary chat message (bot or candidate).
type SaveMessageRequest struct {
	Content string `json:"content" binding:"required"`
	FromBot bool   `json:"from_bot"`
}
