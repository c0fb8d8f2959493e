package model

import (
	"time"

	"gorm.io/gorm"
)

type OfferStatus string

const (
	OfferDraft     OfferStatus = "DRAFT"
	OfferPublished OfferStatus = "PUBLISHED"
	OfferClosed    OfferStatus = "CLOSED"
	OfferArchived  OfferStatus = "ARCHIVED"
	OfferFilled    OfferStatus = "FILLED"
)

type JobOffer struct {
	ID          uint           `gorm:"primarykey" json:"id"`
	Title       string         `json:"title" gorm:"not null"`
	Description string         `json:"description,omitempty" gorm:"type:text"`
	Status      OfferStatus    `json:"status" gorm:"type:varchar(16);not null;default:'DRAFT'"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}
