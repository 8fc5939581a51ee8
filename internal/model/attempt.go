package model

import "time"

// Attempt is one student's pass through an exam. Tallies stay zero and
// FinalizedAt stays nil while the attempt is in progress; once FinalizedAt is
// set the attempt is closed to further answer writes.
//
// swagger:model Attempt
type Attempt struct {
	BaseModel

	ExamID          uint       `gorm:"index;type:bigint unsigned;not null" json:"examId"`
	UserID          uint       `gorm:"index;type:bigint unsigned;not null" json:"userId"`
	StartedAt       time.Time  `json:"startedAt"`
	FinalizedAt     *time.Time `json:"finalizedAt,omitempty"`
	DurationSeconds int        `json:"durationSeconds"`
	Correct         int        `gorm:"default:0" json:"correct"`
	Incorrect       int        `gorm:"default:0" json:"incorrect"`
	Blank           int        `gorm:"default:0" json:"blank"`
	TotalScore      float64    `gorm:"default:0" json:"totalScore"`

	Answers []AnswerRecord `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

func (Attempt) TableName() string {
	return "attempts"
}

func (a *Attempt) Finalized() bool {
	return a.FinalizedAt != nil
}
