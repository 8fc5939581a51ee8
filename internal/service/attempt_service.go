package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"enarm_backend/internal/model"
	"enarm_backend/internal/repository"
	"enarm_backend/internal/util"
	"enarm_backend/pkg/logger"
	"enarm_backend/pkg/monitoring"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type AttemptService struct {
	Attempts  AttemptStore
	Exams     ExamStore
	BankItems BankItemStore
	Ranking   *RankingService // optional

	// Order positions within an attempt are count-based, so answer writes for
	// the same attempt must not interleave between the count and the insert.
	mu    sync.Mutex
	locks map[uint]*sync.Mutex
}

func NewAttemptService(attempts AttemptStore, exams ExamStore, bankItems BankItemStore, ranking *RankingService) *AttemptService {
	return &AttemptService{
		Attempts:  attempts,
		Exams:     exams,
		BankItems: bankItems,
		Ranking:   ranking,
		locks:     make(map[uint]*sync.Mutex),
	}
}

func (s *AttemptService) lockFor(attemptID uint) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[attemptID]
	if !ok {
		l = &sync.Mutex{}
		s.locks[attemptID] = l
	}
	return l
}

func (s *AttemptService) releaseLock(attemptID uint) {
	s.mu.Lock()
	delete(s.locks, attemptID)
	s.mu.Unlock()
}

// StartAttempt opens a new pass through an exam. Multiple attempts per user
// per exam are allowed, concurrently included.
func (s *AttemptService) StartAttempt(examID, userID uint) (*model.Attempt, error) {
	if _, err := s.Exams.FindByID(examID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrExamNotFound
		}
		return nil, err
	}

	attempt := &model.Attempt{
		ExamID:    examID,
		UserID:    userID,
		StartedAt: time.Now(),
	}
	if err := s.Attempts.Create(attempt); err != nil {
		return nil, err
	}
	return attempt, nil
}

func normalizeLabel(label string) (string, error) {
	l := strings.ToLower(strings.TrimSpace(label))
	switch l {
	case "a", "b", "c", "d":
		return l, nil
	}
	return "", fmt.Errorf("%w: selectedLabel must be one of a, b, c, d", util.ErrValidation)
}

// RecordAnswer upserts the student's answer for one bank item. The first
// write snapshots the item's prompt and explanation; later writes for the
// same (attempt, bank item) pair only replace the response fields, never the
// snapshots.
func (s *AttemptService) RecordAnswer(attemptID, bankItemID uint, selectedLabel string) (*model.AnswerRecord, error) {
	label, err := normalizeLabel(selectedLabel)
	if err != nil {
		return nil, err
	}

	lock := s.lockFor(attemptID)
	lock.Lock()
	defer lock.Unlock()

	return s.recordAnswerLocked(attemptID, bankItemID, label)
}

func (s *AttemptService) recordAnswerLocked(attemptID, bankItemID uint, label string) (*model.AnswerRecord, error) {
	attempt, err := s.Attempts.FindByID(attemptID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrAttemptNotFound
		}
		return nil, err
	}
	if attempt.Finalized() {
		return nil, util.ErrAttemptFinalized
	}

	item, err := s.BankItems.FindByID(bankItemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrBankItemNotFound
		}
		return nil, err
	}
	correct := strings.EqualFold(label, item.CorrectLabel)

	existing, err := s.Attempts.FindAnswer(attemptID, bankItemID)
	if err == nil {
		return s.updateAnswer(existing, label, correct)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	count, err := s.Attempts.CountAnswers(attemptID)
	if err != nil {
		return nil, err
	}

	record := &model.AnswerRecord{
		AttemptID:           attemptID,
		BankItemID:          bankItemID,
		SelectedLabel:       &label,
		Answered:            true,
		Correct:             correct,
		Order:               int(count) + 1,
		PromptSnapshot:      item.Prompt,
		ExplanationSnapshot: item.Explanation,
	}
	if err := s.Attempts.CreateAnswer(record); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// Lost a duplicate-submission race on the unique index; the other
			// writer's snapshot stands and this call becomes an update.
			existing, ferr := s.Attempts.FindAnswer(attemptID, bankItemID)
			if ferr != nil {
				return nil, ferr
			}
			return s.updateAnswer(existing, label, correct)
		}
		return nil, err
	}
	return record, nil
}

func (s *AttemptService) updateAnswer(record *model.AnswerRecord, label string, correct bool) (*model.AnswerRecord, error) {
	record.SelectedLabel = &label
	record.Answered = true
	record.Correct = correct
	if err := s.Attempts.UpdateAnswer(record); err != nil {
		return nil, err
	}
	return record, nil
}

// RecordAnswers applies the single-answer upsert per entry. Entries are
// independent; a failure stops the remaining ones but already-written answers
// stay.
func (s *AttemptService) RecordAnswers(attemptID uint, answers map[uint]string) error {
	if len(answers) == 0 {
		return nil
	}

	// Map iteration order is random; sort so order positions are stable.
	itemIDs := make([]uint, 0, len(answers))
	for id := range answers {
		itemIDs = append(itemIDs, id)
	}
	sort.Slice(itemIDs, func(i, j int) bool { return itemIDs[i] < itemIDs[j] })

	lock := s.lockFor(attemptID)
	lock.Lock()
	defer lock.Unlock()

	for _, itemID := range itemIDs {
		label, err := normalizeLabel(answers[itemID])
		if err != nil {
			return err
		}
		if _, err := s.recordAnswerLocked(attemptID, itemID, label); err != nil {
			return err
		}
	}
	return nil
}

// FinalizeAttempt tallies the recorded answers and closes the attempt.
// Blank counts every exam item without an answered record, so items the
// student never touched are included. Calling it again recomputes and
// overwrites the tallies.
func (s *AttemptService) FinalizeAttempt(attemptID uint) (*model.Attempt, error) {
	lock := s.lockFor(attemptID)
	lock.Lock()
	defer lock.Unlock()

	attempt, err := s.Attempts.FindByID(attemptID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrAttemptNotFound
		}
		return nil, err
	}

	records, err := s.Attempts.GetAnswers(attemptID)
	if err != nil {
		return nil, err
	}

	correct := 0
	answered := 0
	for _, r := range records {
		if r.Answered {
			answered++
		}
		if r.Correct {
			correct++
		}
	}

	totalItems, err := s.Exams.CountItems(attempt.ExamID)
	if err != nil {
		return nil, err
	}
	blank := int(totalItems) - answered
	if blank < 0 {
		blank = 0
	}

	now := time.Now()
	attempt.Correct = correct
	attempt.Incorrect = answered - correct
	attempt.Blank = blank
	attempt.TotalScore = float64(correct) // one point per correct answer, unweighted
	attempt.DurationSeconds = int(now.Sub(attempt.StartedAt).Seconds())
	attempt.FinalizedAt = &now

	if err := s.Attempts.Update(attempt); err != nil {
		return nil, err
	}
	s.releaseLock(attemptID)

	monitoring.AttemptsFinalized.Inc()

	if s.Ranking != nil {
		if err := s.Ranking.RecordScore(context.Background(), attempt.UserID, correct); err != nil {
			logger.Log.Error("ranking update failed", zap.Uint("userId", attempt.UserID), zap.Error(err))
		}
	}

	return attempt, nil
}

func (s *AttemptService) GetAttempt(attemptID uint) (*model.Attempt, error) {
	attempt, err := s.Attempts.FindByID(attemptID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrAttemptNotFound
		}
		return nil, err
	}
	return attempt, nil
}

func (s *AttemptService) GetAttemptAnswers(attemptID uint) ([]repository.AnswerRow, error) {
	if _, err := s.Attempts.FindByID(attemptID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrAttemptNotFound
		}
		return nil, err
	}
	return s.Attempts.GetAnswerRows(attemptID)
}

func (s *AttemptService) ListAttemptsByUser(userID uint, page, limit int) ([]model.Attempt, int64, error) {
	return s.Attempts.ListByUser(userID, page, limit)
}
