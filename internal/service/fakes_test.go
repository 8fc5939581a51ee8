package service

import (
	"os"
	"sync"
	"testing"

	"enarm_backend/internal/model"
	"enarm_backend/internal/repository"
	"enarm_backend/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

func TestMain(m *testing.M) {
	logger.Log = zap.NewNop()
	os.Exit(m.Run())
}

// fakeStore is an in-memory stand-in for the gorm repositories. It mirrors the
// contracts the services rely on: gorm.ErrRecordNotFound for missing rows and
// gorm.ErrDuplicatedKey when the (attempt, bank item) unique index is hit.
type fakeStore struct {
	mu sync.Mutex

	specialties map[uint]model.Specialty
	bankItems   map[uint]*model.BankItem
	exams       map[uint]*model.Exam
	examItems   map[uint][]model.ExamItem
	attempts    map[uint]*model.Attempt
	answers     []*model.AnswerRecord

	nextID uint

	// afterAnswerMiss runs after FindAnswer misses, before returning. Tests
	// use it to splice a concurrent insert between find and create.
	afterAnswerMiss func()
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		specialties: make(map[uint]model.Specialty),
		bankItems:   make(map[uint]*model.BankItem),
		exams:       make(map[uint]*model.Exam),
		examItems:   make(map[uint][]model.ExamItem),
		attempts:    make(map[uint]*model.Attempt),
	}
}

func (f *fakeStore) id() uint {
	f.nextID++
	return f.nextID
}

func (f *fakeStore) addSpecialty(name string) uint {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := f.id()
	f.specialties[id] = model.Specialty{BaseModel: model.BaseModel{ID: id}, Name: name}
	return id
}

func (f *fakeStore) addBankItem(specialtyID uint, prompt, correctLabel, explanation string) uint {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := f.id()
	f.bankItems[id] = &model.BankItem{
		BaseModel:    model.BaseModel{ID: id},
		SpecialtyID:  specialtyID,
		Prompt:       prompt,
		OptionA:      "option a",
		OptionB:      "option b",
		OptionC:      "option c",
		OptionD:      "option d",
		CorrectLabel: correctLabel,
		Explanation:  explanation,
	}
	return id
}

// SpecialtyStore

func (f *fakeStore) List() ([]model.Specialty, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]model.Specialty, 0, len(f.specialties))
	for _, s := range f.specialties {
		out = append(out, s)
	}
	return out, nil
}

func (f *fakeStore) Exists(id uint) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.specialties[id]
	return ok, nil
}

// BankItemStore

func (f *fakeStore) Create(item *model.BankItem) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	item.ID = f.id()
	f.bankItems[item.ID] = item
	return nil
}

func (f *fakeStore) FindByID(id uint) (*model.BankItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	item, ok := f.bankItems[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return item, nil
}

func (f *fakeStore) FindRandomBySpecialty(specialtyID uint, limit int) ([]model.BankItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.BankItem
	for id := uint(1); id <= f.nextID && len(out) < limit; id++ {
		if item, ok := f.bankItems[id]; ok && item.SpecialtyID == specialtyID {
			out = append(out, *item)
		}
	}
	return out, nil
}

func (f *fakeStore) ListBySpecialty(specialtyID uint, page, limit int) ([]model.BankItem, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.BankItem
	for id := uint(1); id <= f.nextID; id++ {
		if item, ok := f.bankItems[id]; ok && (specialtyID == 0 || item.SpecialtyID == specialtyID) {
			out = append(out, *item)
		}
	}
	return out, int64(len(out)), nil
}

// ExamStore

func (f *fakeStore) CreateWithItems(exam *model.Exam, items []model.ExamItem) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	exam.ID = f.id()
	for i := range items {
		items[i].ID = f.id()
		items[i].ExamID = exam.ID
	}
	exam.Items = items
	f.exams[exam.ID] = exam
	f.examItems[exam.ID] = items
	return nil
}

func (f *fakeStore) FindExam(id uint) (*model.Exam, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	exam, ok := f.exams[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return exam, nil
}

func (f *fakeStore) GetItemRows(examID uint) ([]repository.ExamItemRow, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var rows []repository.ExamItemRow
	for _, item := range f.examItems[examID] {
		bank := f.bankItems[item.BankItemID]
		rows = append(rows, repository.ExamItemRow{
			ItemRefID:  item.ID,
			Order:      item.Order,
			Weight:     item.Weight,
			BankItemID: bank.ID,
			Prompt:     bank.Prompt,
			OptionA:    bank.OptionA,
			OptionB:    bank.OptionB,
			OptionC:    bank.OptionC,
			OptionD:    bank.OptionD,
		})
	}
	return rows, nil
}

func (f *fakeStore) CountItems(examID uint) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.examItems[examID])), nil
}

// AttemptStore

func (f *fakeStore) CreateAttempt(attempt *model.Attempt) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	attempt.ID = f.id()
	f.attempts[attempt.ID] = attempt
	return nil
}

func (f *fakeStore) UpdateAttempt(attempt *model.Attempt) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.attempts[attempt.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	f.attempts[attempt.ID] = attempt
	return nil
}

func (f *fakeStore) FindAttempt(id uint) (*model.Attempt, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	attempt, ok := f.attempts[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return attempt, nil
}

func (f *fakeStore) ListByUser(userID uint, page, limit int) ([]model.Attempt, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.Attempt
	for _, a := range f.attempts {
		if a.UserID == userID {
			out = append(out, *a)
		}
	}
	return out, int64(len(out)), nil
}

func (f *fakeStore) CreateAnswer(record *model.AnswerRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.answers {
		if r.AttemptID == record.AttemptID && r.BankItemID == record.BankItemID {
			return gorm.ErrDuplicatedKey
		}
	}
	record.ID = f.id()
	f.answers = append(f.answers, record)
	return nil
}

func (f *fakeStore) UpdateAnswer(record *model.AnswerRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, r := range f.answers {
		if r.ID == record.ID {
			f.answers[i] = record
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (f *fakeStore) FindAnswer(attemptID, bankItemID uint) (*model.AnswerRecord, error) {
	f.mu.Lock()
	for _, r := range f.answers {
		if r.AttemptID == attemptID && r.BankItemID == bankItemID {
			f.mu.Unlock()
			return r, nil
		}
	}
	hook := f.afterAnswerMiss
	f.afterAnswerMiss = nil
	f.mu.Unlock()
	if hook != nil {
		hook()
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeStore) CountAnswers(attemptID uint) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var count int64
	for _, r := range f.answers {
		if r.AttemptID == attemptID {
			count++
		}
	}
	return count, nil
}

func (f *fakeStore) GetAnswers(attemptID uint) ([]model.AnswerRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.AnswerRecord
	for _, r := range f.answers {
		if r.AttemptID == attemptID {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (f *fakeStore) GetAnswerRows(attemptID uint) ([]repository.AnswerRow, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var rows []repository.AnswerRow
	for _, r := range f.answers {
		if r.AttemptID != attemptID {
			continue
		}
		bank := f.bankItems[r.BankItemID]
		rows = append(rows, repository.AnswerRow{
			Order:               r.Order,
			BankItemID:          r.BankItemID,
			PromptSnapshot:      r.PromptSnapshot,
			ExplanationSnapshot: r.ExplanationSnapshot,
			SelectedLabel:       r.SelectedLabel,
			CorrectLabel:        bank.CorrectLabel,
			Answered:            r.Answered,
			Correct:             r.Correct,
		})
	}
	return rows, nil
}

// examStoreAdapter and attemptStoreAdapter disambiguate the FindByID-shaped
// methods so one fakeStore can satisfy every store interface.
type examStoreAdapter struct{ *fakeStore }

func (a examStoreAdapter) FindByID(id uint) (*model.Exam, error) { return a.FindExam(id) }

type attemptStoreAdapter struct{ *fakeStore }

func (a attemptStoreAdapter) Create(attempt *model.Attempt) error { return a.CreateAttempt(attempt) }
func (a attemptStoreAdapter) Update(attempt *model.Attempt) error { return a.UpdateAttempt(attempt) }
func (a attemptStoreAdapter) FindByID(id uint) (*model.Attempt, error) {
	return a.FindAttempt(id)
}

func newTestServices(f *fakeStore) (*ExamService, *AttemptService) {
	examStore := examStoreAdapter{f}
	attemptStore := attemptStoreAdapter{f}
	examSvc := NewExamService(f, f, examStore)
	attemptSvc := NewAttemptService(attemptStore, examStore, f, nil)
	return examSvc, attemptSvc
}
