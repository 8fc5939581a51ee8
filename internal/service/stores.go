package service

import (
	"enarm_backend/internal/model"
	"enarm_backend/internal/repository"
)

// Store interfaces are declared here, on the consumer side, so the services
// can run against in-memory fakes in tests. The gorm repositories satisfy
// them; a missing row is reported as gorm.ErrRecordNotFound.

type SpecialtyStore interface {
	List() ([]model.Specialty, error)
	Exists(id uint) (bool, error)
}

type BankItemStore interface {
	Create(item *model.BankItem) error
	FindByID(id uint) (*model.BankItem, error)
	FindRandomBySpecialty(specialtyID uint, limit int) ([]model.BankItem, error)
	ListBySpecialty(specialtyID uint, page, limit int) ([]model.BankItem, int64, error)
}

type ExamStore interface {
	CreateWithItems(exam *model.Exam, items []model.ExamItem) error
	FindByID(id uint) (*model.Exam, error)
	GetItemRows(examID uint) ([]repository.ExamItemRow, error)
	CountItems(examID uint) (int64, error)
}

type AttemptStore interface {
	Create(attempt *model.Attempt) error
	Update(attempt *model.Attempt) error
	FindByID(id uint) (*model.Attempt, error)
	ListByUser(userID uint, page, limit int) ([]model.Attempt, int64, error)

	CreateAnswer(record *model.AnswerRecord) error
	UpdateAnswer(record *model.AnswerRecord) error
	FindAnswer(attemptID, bankItemID uint) (*model.AnswerRecord, error)
	CountAnswers(attemptID uint) (int64, error)
	GetAnswers(attemptID uint) ([]model.AnswerRecord, error)
	GetAnswerRows(attemptID uint) ([]repository.AnswerRow, error)
}
