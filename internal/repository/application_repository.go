package repository

import (
	"errors"

	"github.com/mbendali/recruitai/internal/apperr"
	"github.com/mbendali/recruitai/internal/model"
	"gorm.io/gorm"
)

type ApplicationRepository interface {
	FindByID(id uint) (*model.Application, error)
	Update(application *model.Application) error
	UpdateStatus(id uint, status model.ApplicationStatus) error
}

type applicationRepository struct {
	db *gorm.DB
}

func NewApplicationRepository(db *gorm.DB) ApplicationRepository {
	return &applicationRepository{db: db}
}

func (r *applicationRepository) FindByID(id uint) (*model.Application, error) {
	var application model.Application
	if err := r.db.First(&application, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NewNotFound("Application", id)
		}
		return nil, err
	}
	return &application, nil
}

func (r *applicationRepository) Update(application *model.Application) error {
	return r.db.Save(application).Error
}

func (r *applicationRepository) UpdateStatus(id uint, status model.ApplicationStatus) error {
	result := r.db.Model(&model.Application{}).Where("id = ?", id).Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperr.NewNotFound("Application", id)
	}
	return nil
}
