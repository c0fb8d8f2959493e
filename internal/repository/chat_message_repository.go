package repository

import (
	"github.com/mbendali/recruitai/internal/model"
	"gorm.io/gorm"
)

type ChatMessageRepository interface {
	Create(message *model.ChatMessage) error
	// FindByInterviewIDOrderByTimestampAsc returns the full conversation for
	// an interview, oldest message first. This ordering is the one contract
	// every prompt builder relies on.
	FindByInterviewIDOrderByTimestampAsc(interviewID uint) ([]model.ChatMessage, error)
}

type chatMessageRepository struct {
	db *gorm.DB
}

func NewChatMessageRepository(db *gorm.DB) ChatMessageRepository {
	return &chatMessageRepository{db: db}
}

func (r *chatMessageRepository) Create(message *model.ChatMessage) error {
	return r.db.Create(message).Error
}

func (r *chatMessageRepository) FindByInterviewIDOrderByTimestampAsc(interviewID uint) ([]model.ChatMessage, error) {
	var messages []model.ChatMessage
	err := r.db.Where("interview_id = ?", interviewID).Order("timestamp ASC, id ASC").Find(&messages).Error
	return messages, err
}
