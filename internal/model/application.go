package model

import (
	"time"

	"gorm.io/gorm"
)

// ApplicationStatus enumerates the recruitment pipeline states of an application.
type ApplicationStatus string

const (
	ApplicationReceived           ApplicationStatus = "RECEIVED"
	ApplicationUnderReview        ApplicationStatus = "UNDER_REVIEW"
	ApplicationInterviewScheduled ApplicationStatus = "INTERVIEW_SCHEDULED"
	ApplicationInterviewCompleted ApplicationStatus = "INTERVIEW_COMPLETED"
	ApplicationAssessmentSent     ApplicationStatus = "ASSESSMENT_SENT"
	ApplicationAssessmentPassed   ApplicationStatus = "ASSESSMENT_PASSED"
	ApplicationOfferExtended      ApplicationStatus = "OFFER_EXTENDED"
	ApplicationAccepted           ApplicationStatus = "ACCEPTED"
	ApplicationRejected           ApplicationStatus = "REJECTED"
	ApplicationWithdrawn          ApplicationStatus = "WITHDRAWN"
)

type Application struct {
	ID          uint              `gorm:"primarykey" json:"id"`
	CandidateID uint              `json:"candidate_id" gorm:"not null;index"`
	Candidate   Candidate         `json:"candidate,omitempty" gorm:"foreignKey:CandidateID"`
	JobOfferID  uint              `json:"job_offer_id" gorm:"not null;index"`
	JobOffer    JobOffer          `json:"job_offer,omitempty" gorm:"foreignKey:JobOfferID"`
	Status      ApplicationStatus `json:"status" gorm:"type:varchar(32);not null;default:'RECEIVED'"`
	CoverLetter string            `json:"cover_letter,omitempty" gorm:"type:text"`
	Interviews  []Interview       `json:"interviews,omitempty" gorm:"foreignKey:ApplicationID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
	DeletedAt   gorm.DeletedAt    `gorm:"index" json:"-"`
}
