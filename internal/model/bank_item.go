package model

// BankItem is one multiple-choice question in the catalog. Published items are
// treated as immutable: answer records keep their own text snapshots, so a
// later edit never rewrites what a student already saw.
//
// swagger:model BankItem
type BankItem struct {
	BaseModel

	SpecialtyID  uint   `gorm:"index;type:bigint unsigned;not null" json:"specialtyId"`
	Prompt       string `gorm:"type:text;not null" json:"prompt"`
	OptionA      string `gorm:"type:text;not null" json:"optionA"`
	OptionB      string `gorm:"type:text;not null" json:"optionB"`
	OptionC      string `gorm:"type:text;not null" json:"optionC"`
	OptionD      string `gorm:"type:text;not null" json:"optionD"`
	CorrectLabel string `gorm:"size:1;not null" json:"correctLabel"` // a, b, c or d
	Explanation  string `gorm:"type:text" json:"explanation"`
	CreatedBy    uint   `gorm:"index;type:bigint unsigned" json:"createdBy"`
}

func (BankItem) TableName() string {
	return "bank_items"
}
