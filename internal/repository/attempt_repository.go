package repository

import (
	"enarm_backend/internal/model"

	"gorm.io/gorm"
)

// AnswerRow is the flattened read shape for one recorded answer: the record's
// own snapshots plus the bank item's current correct label, fetched in one
// join rather than through a lazy relation.
type AnswerRow struct {
	Order               int     `gorm:"column:item_order" json:"itemRefOrder"`
	BankItemID          uint    `json:"bankItemId"`
	PromptSnapshot      string  `json:"promptSnapshot"`
	ExplanationSnapshot string  `json:"explanationSnapshot"`
	SelectedLabel       *string `json:"selectedLabel,omitempty"`
	CorrectLabel        string  `json:"correctLabel"`
	Answered            bool    `json:"answered"`
	Correct             bool    `json:"correct"`
}

type AttemptRepository struct {
	DB *gorm.DB
}

func NewAttemptRepository(db *gorm.DB) *AttemptRepository {
	return &AttemptRepository{DB: db}
}

func (r *AttemptRepository) Create(attempt *model.Attempt) error {
	return r.DB.Create(attempt).Error
}

func (r *AttemptRepository) Update(attempt *model.Attempt) error {
	return r.DB.Save(attempt).Error
}

func (r *AttemptRepository) FindByID(id uint) (*model.Attempt, error) {
	var a model.Attempt
	if err := r.DB.First(&a, id).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *AttemptRepository) ListByUser(userID uint, page, limit int) ([]model.Attempt, int64, error) {
	var attempts []model.Attempt
	var total int64

	query := r.DB.Model(&model.Attempt{}).Where("user_id = ?", userID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := query.Order("started_at DESC").Offset((page - 1) * limit).Limit(limit).Find(&attempts).Error
	return attempts, total, err
}

func (r *AttemptRepository) CreateAnswer(record *model.AnswerRecord) error {
	return r.DB.Create(record).Error
}

func (r *AttemptRepository) UpdateAnswer(record *model.AnswerRecord) error {
	return r.DB.Save(record).Error
}

func (r *AttemptRepository) FindAnswer(attemptID, bankItemID uint) (*model.AnswerRecord, error) {
	var rec model.AnswerRecord
	err := r.DB.Where("attempt_id = ? AND bank_item_id = ?", attemptID, bankItemID).First(&rec).Error
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *AttemptRepository) CountAnswers(attemptID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.AnswerRecord{}).Where("attempt_id = ?", attemptID).Count(&count).Error
	return count, err
}

func (r *AttemptRepository) GetAnswers(attemptID uint) ([]model.AnswerRecord, error) {
	var records []model.AnswerRecord
	err := r.DB.Where("attempt_id = ?", attemptID).Order("item_order ASC").Find(&records).Error
	return records, err
}

func (r *AttemptRepository) GetAnswerRows(attemptID uint) ([]AnswerRow, error) {
	var rows []AnswerRow
	err := r.DB.Table("answer_records").
		Select(`answer_records.item_order,
			answer_records.bank_item_id,
			answer_records.prompt_snapshot,
			answer_records.explanation_snapshot,
			answer_records.selected_label,
			answer_records.answered,
			answer_records.correct,
			bank_items.correct_label`).
		Joins("JOIN bank_items ON bank_items.id = answer_records.bank_item_id").
		Where("answer_records.attempt_id = ?", attemptID).
		Order("answer_records.item_order ASC").
		Scan(&rows).Error
	return rows, err
}
