package model

// swagger:model Specialty
type Specialty struct {
	BaseModel

	Name string `gorm:"size:100;uniqueIndex;not null" json:"name"`
}

func (Specialty) TableName() string {
	return "specialties"
}
