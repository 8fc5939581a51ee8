package repository

import (
	"enarm_backend/internal/model"

	"gorm.io/gorm"
)

// ExamItemRow is the flattened read shape for one exam position: the item ref
// joined with the bank item text it points at. Views are assembled from
// explicit joins, never from lazily loaded relations.
type ExamItemRow struct {
	ItemRefID  uint    `json:"itemRefId"`
	Order      int     `gorm:"column:item_order" json:"order"`
	Weight     float64 `json:"weight"`
	BankItemID uint    `json:"bankItemId"`
	Prompt     string  `json:"prompt"`
	OptionA    string  `json:"optionA"`
	OptionB    string  `json:"optionB"`
	OptionC    string  `json:"optionC"`
	OptionD    string  `json:"optionD"`
}

type ExamRepository struct {
	DB *gorm.DB
}

func NewExamRepository(db *gorm.DB) *ExamRepository {
	return &ExamRepository{DB: db}
}

// CreateWithItems persists the exam header and all of its item refs in one
// transaction. A failure anywhere leaves nothing behind.
func (r *ExamRepository) CreateWithItems(exam *model.Exam, items []model.ExamItem) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(exam).Error; err != nil {
			return err
		}
		for i := range items {
			items[i].ExamID = exam.ID
		}
		if err := tx.Create(&items).Error; err != nil {
			return err
		}
		exam.Items = items
		return nil
	})
}

func (r *ExamRepository) FindByID(id uint) (*model.Exam, error) {
	var exam model.Exam
	if err := r.DB.First(&exam, id).Error; err != nil {
		return nil, err
	}
	return &exam, nil
}

func (r *ExamRepository) Exists(id uint) (bool, error) {
	var count int64
	err := r.DB.Model(&model.Exam{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

func (r *ExamRepository) GetItemRows(examID uint) ([]ExamItemRow, error) {
	var rows []ExamItemRow
	err := r.DB.Table("exam_items").
		Select(`exam_items.id AS item_ref_id,
			exam_items.item_order,
			exam_items.weight,
			bank_items.id AS bank_item_id,
			bank_items.prompt,
			bank_items.option_a,
			bank_items.option_b,
			bank_items.option_c,
			bank_items.option_d`).
		Joins("JOIN bank_items ON bank_items.id = exam_items.bank_item_id").
		Where("exam_items.exam_id = ?", examID).
		Order("exam_items.item_order ASC").
		Scan(&rows).Error
	return rows, err
}

func (r *ExamRepository) CountItems(examID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.ExamItem{}).Where("exam_id = ?", examID).Count(&count).Error
	return count, err
}
