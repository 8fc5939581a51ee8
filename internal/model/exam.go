package model

// Exam is a generated, ordered collection of bank item references. It is
// written once by the assembler and never mutated afterwards; deleting it
// cascades to its items.
//
// swagger:model Exam
type Exam struct {
	BaseModel

	Name             string `gorm:"size:150;not null" json:"name"`
	Description      string `gorm:"type:text" json:"description"`
	TimeLimitMinutes *int   `json:"timeLimitMinutes,omitempty"` // advisory only, not enforced here
	CreatedBy        uint   `gorm:"index;type:bigint unsigned" json:"createdBy"`

	Items []ExamItem `gorm:"constraint:OnDelete:CASCADE" json:"items,omitempty"`
}

func (Exam) TableName() string {
	return "exams"
}

// ExamItem binds an exam to a bank item at a fixed presentation position.
//
// swagger:model ExamItem
type ExamItem struct {
	BaseModel

	ExamID     uint    `gorm:"uniqueIndex:uq_exam_order;type:bigint unsigned;not null" json:"examId"`
	BankItemID uint    `gorm:"index;type:bigint unsigned;not null" json:"bankItemId"`
	Order      int     `gorm:"uniqueIndex:uq_exam_order;column:item_order;not null" json:"order"`
	Weight     float64 `gorm:"default:1" json:"weight"`
}

func (ExamItem) TableName() string {
	return "exam_items"
}
