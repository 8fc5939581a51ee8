package repository

import (
	"enarm_backend/internal/model"

	"gorm.io/gorm"
)

type BankItemRepository struct {
	DB *gorm.DB
}

func NewBankItemRepository(db *gorm.DB) *BankItemRepository {
	return &BankItemRepository{DB: db}
}

func (r *BankItemRepository) Create(item *model.BankItem) error {
	return r.DB.Create(item).Error
}

func (r *BankItemRepository) FindByID(id uint) (*model.BankItem, error) {
	var item model.BankItem
	if err := r.DB.First(&item, id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

// FindRandomBySpecialty draws up to limit items uniformly at random from one
// specialty. The draw is without replacement; fewer rows come back when the
// bank is smaller than the request.
func (r *BankItemRepository) FindRandomBySpecialty(specialtyID uint, limit int) ([]model.BankItem, error) {
	var items []model.BankItem
	err := r.DB.Where("specialty_id = ?", specialtyID).
		Order("RAND()").
		Limit(limit).
		Find(&items).Error
	return items, err
}

func (r *BankItemRepository) ListBySpecialty(specialtyID uint, page, limit int) ([]model.BankItem, int64, error) {
	var items []model.BankItem
	var total int64

	query := r.DB.Model(&model.BankItem{})
	if specialtyID > 0 {
		query = query.Where("specialty_id = ?", specialtyID)
	}
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := query.Order("id ASC").Offset((page - 1) * limit).Limit(limit).Find(&items).Error
	return items, total, err
}

func (r *BankItemRepository) CountBySpecialty(specialtyID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.BankItem{}).Where("specialty_id = ?", specialtyID).Count(&count).Error
	return count, err
}
