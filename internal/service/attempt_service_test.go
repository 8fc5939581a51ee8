package service

import (
	"errors"
	"sync"
	"testing"

	"enarm_backend/internal/model"
	"enarm_backend/internal/util"
)

// threeItemExam seeds an exam whose items have correct labels a, b, c and
// returns the exam plus the three bank item ids in presentation order.
func threeItemExam(t *testing.T, f *fakeStore) (*ExamService, *AttemptService, *model.Exam, []uint) {
	t.Helper()

	spID := f.addSpecialty("Cardio")
	itemA := f.addBankItem(spID, "question A", "a", "why A")
	itemB := f.addBankItem(spID, "question B", "b", "why B")
	itemC := f.addBankItem(spID, "question C", "c", "why C")

	examSvc, attemptSvc := newTestServices(f)
	exam, err := examSvc.GenerateExam([]uint{spID}, 3, nil, 1)
	if err != nil {
		t.Fatalf("GenerateExam returned error: %v", err)
	}
	return examSvc, attemptSvc, exam, []uint{itemA, itemB, itemC}
}

func TestStartAttempt(t *testing.T) {
	f := newFakeStore()
	_, attemptSvc, exam, _ := threeItemExam(t, f)

	attempt, err := attemptSvc.StartAttempt(exam.ID, 7)
	if err != nil {
		t.Fatalf("StartAttempt returned error: %v", err)
	}
	if attempt.ExamID != exam.ID || attempt.UserID != 7 {
		t.Errorf("attempt references exam %d user %d", attempt.ExamID, attempt.UserID)
	}
	if attempt.FinalizedAt != nil || attempt.Correct != 0 || attempt.Incorrect != 0 || attempt.Blank != 0 {
		t.Errorf("new attempt must have nil finalizedAt and zero tallies: %+v", attempt)
	}

	// Multiple concurrent attempts on the same exam are allowed.
	second, err := attemptSvc.StartAttempt(exam.ID, 7)
	if err != nil {
		t.Fatalf("second StartAttempt returned error: %v", err)
	}
	if second.ID == attempt.ID {
		t.Error("second attempt reused the first attempt's id")
	}

	if _, err := attemptSvc.StartAttempt(9999, 7); !errors.Is(err, util.ErrExamNotFound) {
		t.Fatalf("expected ErrExamNotFound, got %v", err)
	}
}

func TestRecordAnswer_Validation(t *testing.T) {
	f := newFakeStore()
	_, attemptSvc, exam, items := threeItemExam(t, f)
	attempt, _ := attemptSvc.StartAttempt(exam.ID, 1)

	for _, label := range []string{"", "e", "ab", "1"} {
		if _, err := attemptSvc.RecordAnswer(attempt.ID, items[0], label); !errors.Is(err, util.ErrValidation) {
			t.Errorf("label %q: expected ErrValidation, got %v", label, err)
		}
	}

	// Uppercase input is normalized, not rejected.
	rec, err := attemptSvc.RecordAnswer(attempt.ID, items[0], "A")
	if err != nil {
		t.Fatalf("RecordAnswer returned error: %v", err)
	}
	if rec.SelectedLabel == nil || *rec.SelectedLabel != "a" {
		t.Errorf("expected normalized label a, got %v", rec.SelectedLabel)
	}
	if !rec.Correct {
		t.Error("case-insensitive comparison should mark A as correct")
	}
}

func TestRecordAnswer_NotFound(t *testing.T) {
	f := newFakeStore()
	_, attemptSvc, exam, items := threeItemExam(t, f)
	attempt, _ := attemptSvc.StartAttempt(exam.ID, 1)

	if _, err := attemptSvc.RecordAnswer(9999, items[0], "a"); !errors.Is(err, util.ErrAttemptNotFound) {
		t.Fatalf("expected ErrAttemptNotFound, got %v", err)
	}
	if _, err := attemptSvc.RecordAnswer(attempt.ID, 9999, "a"); !errors.Is(err, util.ErrBankItemNotFound) {
		t.Fatalf("expected ErrBankItemNotFound, got %v", err)
	}
}

func TestRecordAnswer_IdempotentUpsertKeepsSnapshot(t *testing.T) {
	f := newFakeStore()
	_, attemptSvc, exam, items := threeItemExam(t, f)
	attempt, _ := attemptSvc.StartAttempt(exam.ID, 1)

	first, err := attemptSvc.RecordAnswer(attempt.ID, items[0], "c")
	if err != nil {
		t.Fatalf("first RecordAnswer returned error: %v", err)
	}
	if first.PromptSnapshot != "question A" || first.ExplanationSnapshot != "why A" {
		t.Fatalf("unexpected snapshots: %q / %q", first.PromptSnapshot, first.ExplanationSnapshot)
	}
	if first.Correct {
		t.Error("c against correct label a must not be correct")
	}

	// Edit the bank item between the two calls; the snapshot must not move.
	f.mu.Lock()
	f.bankItems[items[0]].Prompt = "edited prompt"
	f.bankItems[items[0]].Explanation = "edited explanation"
	f.mu.Unlock()

	second, err := attemptSvc.RecordAnswer(attempt.ID, items[0], "a")
	if err != nil {
		t.Fatalf("second RecordAnswer returned error: %v", err)
	}
	if second.ID != first.ID {
		t.Fatalf("upsert created a second record: %d vs %d", second.ID, first.ID)
	}
	if !second.Correct || second.SelectedLabel == nil || *second.SelectedLabel != "a" {
		t.Errorf("second call must carry the new label and correctness: %+v", second)
	}
	if second.PromptSnapshot != "question A" || second.ExplanationSnapshot != "why A" {
		t.Errorf("snapshots changed on update: %q / %q", second.PromptSnapshot, second.ExplanationSnapshot)
	}
	if second.Order != first.Order {
		t.Errorf("order moved on update: %d vs %d", second.Order, first.Order)
	}

	if n, _ := f.CountAnswers(attempt.ID); n != 1 {
		t.Fatalf("expected exactly one record for the pair, got %d", n)
	}
}

func TestRecordAnswer_DuplicateInsertBecomesUpdate(t *testing.T) {
	f := newFakeStore()
	_, attemptSvc, exam, items := threeItemExam(t, f)
	attempt, _ := attemptSvc.StartAttempt(exam.ID, 1)

	// Splice a competing insert between the find and the create, the way a
	// concurrent duplicate submission would land first on the unique index.
	label := "b"
	f.afterAnswerMiss = func() {
		f.CreateAnswer(&model.AnswerRecord{
			AttemptID:           attempt.ID,
			BankItemID:          items[0],
			SelectedLabel:       &label,
			Answered:            true,
			Order:               1,
			PromptSnapshot:      "question A",
			ExplanationSnapshot: "why A",
		})
	}

	rec, err := attemptSvc.RecordAnswer(attempt.ID, items[0], "a")
	if err != nil {
		t.Fatalf("RecordAnswer must absorb the duplicate-key race, got %v", err)
	}
	if rec.SelectedLabel == nil || *rec.SelectedLabel != "a" || !rec.Correct {
		t.Errorf("loser of the race must still apply its response fields: %+v", rec)
	}
	if n, _ := f.CountAnswers(attempt.ID); n != 1 {
		t.Fatalf("expected one record after the race, got %d", n)
	}
}

func TestRecordAnswers_Bulk(t *testing.T) {
	f := newFakeStore()
	_, attemptSvc, exam, items := threeItemExam(t, f)
	attempt, _ := attemptSvc.StartAttempt(exam.ID, 1)

	err := attemptSvc.RecordAnswers(attempt.ID, map[uint]string{
		items[0]: "a",
		items[1]: "d",
	})
	if err != nil {
		t.Fatalf("RecordAnswers returned error: %v", err)
	}

	records, _ := f.GetAnswers(attempt.ID)
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	for i, r := range records {
		if r.Order != i+1 {
			t.Errorf("record %d has order %d", i, r.Order)
		}
	}
}

func TestOrderMonotonicUnderConcurrency(t *testing.T) {
	f := newFakeStore()
	spID := f.addSpecialty("Cardio")
	var itemIDs []uint
	for i := 0; i < 20; i++ {
		itemIDs = append(itemIDs, f.addBankItem(spID, "q", "a", ""))
	}
	examSvc, attemptSvc := newTestServices(f)
	exam, err := examSvc.GenerateExam([]uint{spID}, 20, nil, 1)
	if err != nil {
		t.Fatalf("GenerateExam returned error: %v", err)
	}
	attempt, _ := attemptSvc.StartAttempt(exam.ID, 1)

	var wg sync.WaitGroup
	for _, id := range itemIDs {
		wg.Add(1)
		go func(bankItemID uint) {
			defer wg.Done()
			if _, err := attemptSvc.RecordAnswer(attempt.ID, bankItemID, "b"); err != nil {
				t.Errorf("RecordAnswer(%d) returned error: %v", bankItemID, err)
			}
		}(id)
	}
	wg.Wait()

	records, _ := f.GetAnswers(attempt.ID)
	if len(records) != len(itemIDs) {
		t.Fatalf("expected %d records, got %d", len(itemIDs), len(records))
	}
	seen := make(map[int]bool)
	for _, r := range records {
		if r.Order < 1 || r.Order > len(itemIDs) {
			t.Errorf("order %d out of range", r.Order)
		}
		if seen[r.Order] {
			t.Errorf("duplicate order %d", r.Order)
		}
		seen[r.Order] = true
	}
}

func TestFinalizeAttempt_Tallies(t *testing.T) {
	f := newFakeStore()
	_, attemptSvc, exam, items := threeItemExam(t, f)
	attempt, _ := attemptSvc.StartAttempt(exam.ID, 1)

	// A answered correctly, B answered wrong, C left untouched.
	if _, err := attemptSvc.RecordAnswer(attempt.ID, items[0], "a"); err != nil {
		t.Fatalf("RecordAnswer A: %v", err)
	}
	if _, err := attemptSvc.RecordAnswer(attempt.ID, items[1], "d"); err != nil {
		t.Fatalf("RecordAnswer B: %v", err)
	}

	result, err := attemptSvc.FinalizeAttempt(attempt.ID)
	if err != nil {
		t.Fatalf("FinalizeAttempt returned error: %v", err)
	}
	if result.Correct != 1 || result.Incorrect != 1 || result.Blank != 1 {
		t.Fatalf("expected tallies 1/1/1, got %d/%d/%d", result.Correct, result.Incorrect, result.Blank)
	}
	if result.TotalScore != 1 {
		t.Errorf("expected total score 1, got %v", result.TotalScore)
	}
	if result.FinalizedAt == nil {
		t.Fatal("finalizedAt must be set")
	}
}

func TestFinalizeAttempt_NotFound(t *testing.T) {
	f := newFakeStore()
	_, attemptSvc := newTestServices(f)

	if _, err := attemptSvc.FinalizeAttempt(9999); !errors.Is(err, util.ErrAttemptNotFound) {
		t.Fatalf("expected ErrAttemptNotFound, got %v", err)
	}
}

func TestRecordAnswer_AfterFinalizeRejected(t *testing.T) {
	f := newFakeStore()
	_, attemptSvc, exam, items := threeItemExam(t, f)
	attempt, _ := attemptSvc.StartAttempt(exam.ID, 1)

	if _, err := attemptSvc.FinalizeAttempt(attempt.ID); err != nil {
		t.Fatalf("FinalizeAttempt returned error: %v", err)
	}

	if _, err := attemptSvc.RecordAnswer(attempt.ID, items[0], "a"); !errors.Is(err, util.ErrAttemptFinalized) {
		t.Fatalf("expected ErrAttemptFinalized, got %v", err)
	}
}

func TestFinalizeAttempt_RecomputesOnSecondCall(t *testing.T) {
	f := newFakeStore()
	_, attemptSvc, exam, items := threeItemExam(t, f)
	attempt, _ := attemptSvc.StartAttempt(exam.ID, 1)

	if _, err := attemptSvc.RecordAnswer(attempt.ID, items[0], "a"); err != nil {
		t.Fatalf("RecordAnswer: %v", err)
	}

	first, err := attemptSvc.FinalizeAttempt(attempt.ID)
	if err != nil {
		t.Fatalf("first FinalizeAttempt: %v", err)
	}
	second, err := attemptSvc.FinalizeAttempt(attempt.ID)
	if err != nil {
		t.Fatalf("second FinalizeAttempt: %v", err)
	}
	if second.Correct != first.Correct || second.Incorrect != first.Incorrect || second.Blank != first.Blank {
		t.Errorf("tallies changed between finalizations: %+v vs %+v", first, second)
	}
}

func TestGetAttemptAnswers(t *testing.T) {
	f := newFakeStore()
	_, attemptSvc, exam, items := threeItemExam(t, f)
	attempt, _ := attemptSvc.StartAttempt(exam.ID, 1)

	if _, err := attemptSvc.RecordAnswer(attempt.ID, items[1], "b"); err != nil {
		t.Fatalf("RecordAnswer: %v", err)
	}

	rows, err := attemptSvc.GetAttemptAnswers(attempt.ID)
	if err != nil {
		t.Fatalf("GetAttemptAnswers returned error: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	row := rows[0]
	if row.PromptSnapshot != "question B" || row.CorrectLabel != "b" || !row.Correct || !row.Answered {
		t.Errorf("unexpected answer row: %+v", row)
	}

	if _, err := attemptSvc.GetAttemptAnswers(9999); !errors.Is(err, util.ErrAttemptNotFound) {
		t.Fatalf("expected ErrAttemptNotFound, got %v", err)
	}
}
