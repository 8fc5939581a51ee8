package service

import (
	"errors"
	"fmt"
	"time"

	"enarm_backend/internal/model"
	"enarm_backend/internal/repository"
	"enarm_backend/internal/util"
	"enarm_backend/pkg/logger"
	"enarm_backend/pkg/monitoring"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type ExamService struct {
	Specialties SpecialtyStore
	BankItems   BankItemStore
	Exams       ExamStore
}

func NewExamService(specialties SpecialtyStore, bankItems BankItemStore, exams ExamStore) *ExamService {
	return &ExamService{
		Specialties: specialties,
		BankItems:   bankItems,
		Exams:       exams,
	}
}

type GenerateExamRequest struct {
	SpecialtyIDs      []uint `json:"specialtyIds" binding:"required"`
	CountPerSpecialty int    `json:"countPerSpecialty" binding:"required"`
	TimeLimitMinutes  *int   `json:"timeLimitMinutes,omitempty"`
}

// ExamView is the flattened read model for an exam and its items.
type ExamView struct {
	ID               uint                     `json:"id"`
	Name             string                   `json:"name"`
	Description      string                   `json:"description"`
	CreatedAt        time.Time                `json:"createdAt"`
	TimeLimitMinutes *int                     `json:"timeLimitMinutes,omitempty"`
	Items            []repository.ExamItemRow `json:"items"`
}

// GenerateExam draws countPerSpecialty random bank items for each requested
// specialty, in input order, and persists the exam with its item refs as one
// unit. Unknown specialties are skipped; a specialty with a smaller bank
// yields fewer items. Only a fully empty draw is an error.
func (s *ExamService) GenerateExam(specialtyIDs []uint, countPerSpecialty int, timeLimitMinutes *int, userID uint) (*model.Exam, error) {
	if countPerSpecialty <= 0 {
		return nil, fmt.Errorf("%w: countPerSpecialty must be positive", util.ErrValidation)
	}
	if len(specialtyIDs) == 0 {
		return nil, fmt.Errorf("%w: at least one specialty is required", util.ErrValidation)
	}

	var items []model.ExamItem
	order := 1
	for _, spID := range specialtyIDs {
		ok, err := s.Specialties.Exists(spID)
		if err != nil {
			return nil, err
		}
		if !ok {
			logger.Log.Warn("skipping unknown specialty", zap.Uint("specialtyId", spID))
			continue
		}

		drawn, err := s.BankItems.FindRandomBySpecialty(spID, countPerSpecialty)
		if err != nil {
			return nil, err
		}
		for _, item := range drawn {
			items = append(items, model.ExamItem{
				BankItemID: item.ID,
				Order:      order,
				Weight:     1.0,
			})
			order++
		}
	}

	if len(items) == 0 {
		return nil, util.ErrEmptyExam
	}

	exam := &model.Exam{
		Name:             "Generated exam",
		Description:      fmt.Sprintf("Exam with %d items across %d specialties", len(items), len(specialtyIDs)),
		TimeLimitMinutes: timeLimitMinutes,
		CreatedBy:        userID,
	}
	if err := s.Exams.CreateWithItems(exam, items); err != nil {
		return nil, err
	}

	monitoring.ExamsGenerated.Inc()
	return exam, nil
}

func (s *ExamService) GetExamView(examID uint) (*ExamView, error) {
	exam, err := s.Exams.FindByID(examID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrExamNotFound
		}
		return nil, err
	}

	rows, err := s.Exams.GetItemRows(examID)
	if err != nil {
		return nil, err
	}

	return &ExamView{
		ID:               exam.ID,
		Name:             exam.Name,
		Description:      exam.Description,
		CreatedAt:        exam.CreatedAt,
		TimeLimitMinutes: exam.TimeLimitMinutes,
		Items:            rows,
	}, nil
}
