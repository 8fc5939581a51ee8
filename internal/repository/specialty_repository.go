package repository

import (
	"enarm_backend/internal/model"

	"gorm.io/gorm"
)

type SpecialtyRepository struct {
	DB *gorm.DB
}

func NewSpecialtyRepository(db *gorm.DB) *SpecialtyRepository {
	return &SpecialtyRepository{DB: db}
}

func (r *SpecialtyRepository) List() ([]model.Specialty, error) {
	var specialties []model.Specialty
	err := r.DB.Order("name ASC").Find(&specialties).Error
	return specialties, err
}

func (r *SpecialtyRepository) FindByID(id uint) (*model.Specialty, error) {
	var s model.Specialty
	if err := r.DB.First(&s, id).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *SpecialtyRepository) Exists(id uint) (bool, error) {
	var count int64
	err := r.DB.Model(&model.Specialty{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}
