package model

// AnswerRecord is one student response to one bank item within one attempt.
// The (attempt_id, bank_item_id) unique index is the idempotency key for the
// recorder: concurrent duplicate submissions collapse into an update.
//
// PromptSnapshot and ExplanationSnapshot are captured on first write and never
// touched again, so the record reflects the question as it was presented even
// if the bank item is edited later.
//
// swagger:model AnswerRecord
type AnswerRecord struct {
	BaseModel

	AttemptID  uint `gorm:"uniqueIndex:uq_attempt_item;type:bigint unsigned;not null" json:"attemptId"`
	BankItemID uint `gorm:"uniqueIndex:uq_attempt_item;type:bigint unsigned;not null" json:"bankItemId"`

	SelectedLabel *string `gorm:"size:1" json:"selectedLabel,omitempty"` // a, b, c or d; nil while unanswered
	Answered      bool    `gorm:"default:false" json:"answered"`
	Correct       bool    `gorm:"default:false" json:"correct"`
	Order         int     `gorm:"column:item_order" json:"order"`
	ElapsedSec    int     `json:"elapsedSec"`

	PromptSnapshot      string `gorm:"type:text;not null" json:"promptSnapshot"`
	ExplanationSnapshot string `gorm:"type:text" json:"explanationSnapshot"`
}

func (AnswerRecord) TableName() string {
	return "answer_records"
}
