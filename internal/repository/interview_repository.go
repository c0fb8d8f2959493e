package repository

import (
	"errors"

	"github.com/mbendali/recruitai/internal/apperr"
	"github.com/mbendali/recruitai/internal/model"
	"gorm.io/gorm"
)

type InterviewRepository interface {
	Create(interview *model.Interview) error
	Update(interview *model.Interview) error
	FindByID(id uint) (*model.Interview, error)
	// FindByIDWithDetails preloads the parent application together with its
	// job offer and candidate, for chat prompt context building.
	FindByIDWithDetails(id uint) (*model.Interview, error)
	FindByApplicationID(applicationID uint) ([]model.Interview, error)
}

type interviewRepository struct {
	db *gorm.DB
}

func NewInterviewRepository(db *gorm.DB) InterviewRepository {
	return &interviewRepository{db: db}
}

func (r *interviewRepository) Create(interview *model.Interview) error {
	return r.db.Create(interview).Error
}

func (r *interviewRepository) Update(interview *model.Interview) error {
	return r.db.Save(interview).Error
}

func (r *interviewRepository) FindByID(id uint) (*model.Interview, error) {
	var interview model.Interview
	if err := r.db.First(&interview, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NewNotFound("Interview", id)
		}
		return nil, err
	}
	return &interview, nil
}

func (r *interviewRepository) FindByIDWithDetails(id uint) (*model.Interview, error) {
	var interview model.Interview
	err := r.db.
		Preload("Application").
		Preload("Application.JobOffer").
		Preload("Application.Candidate").
		First(&interview, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NewNotFound("Interview", id)
		}
		return nil, err
	}
	return &interview, nil
}

func (r *interviewRepository) FindByApplicationID(applicationID uint) ([]model.Interview, error) {
	var interviews []model.Interview
	err := r.db.Where("application_id = ?", applicationID).Order("created_at ASC").Find(&interviews).Error
	return interviews, err
}
