package store

import (
	"context"
	"errors"
	"testing"

	"quizdeck/internal/models"
)

func TestQuestionStore(t *testing.T) {
	ctx := context.Background()
	ds := testDocstore(t)
	s := NewQuestionStore(ds)

	b := ds.Batch()
	var ids []string
	for _, q := range []models.Question{
		{QuestionID: "나-2", Text: "second", CategoryID: "cat"},
		{QuestionID: "가-1", Text: "first", CategoryID: "cat", CorrectAnswer: true},
		{QuestionID: "Z-9", Text: "other", CategoryID: "elsewhere"},
	} {
		staged, err := s.Stage(b, &q)
		if err != nil {
			t.Fatalf("Stage: %v", err)
		}
		ids = append(ids, staged.ID)
	}
	if err := b.Commit(ctx); err != nil {
		t.Fatalf("Commit: %v", err)
	}

	list, err := s.ListByCategory(ctx, "cat")
	if err != nil {
		t.Fatalf("ListByCategory: %v", err)
	}
	if len(list) != 2 || list[0].QuestionID != "가-1" || list[1].QuestionID != "나-2" {
		t.Errorf("ListByCategory order: got %+v", list)
	}
	if !list[0].CorrectAnswer {
		t.Error("correct_answer lost in round trip")
	}

	exists, err := s.ExistsByQuestionID(ctx, "Z-9")
	if err != nil || !exists {
		t.Errorf("ExistsByQuestionID(Z-9): %v, %v", exists, err)
	}
	exists, _ = s.ExistsByQuestionID(ctx, "nope")
	if exists {
		t.Error("ExistsByQuestionID(nope) = true")
	}

	if err := s.UpdateMemo(ctx, ids[0], "remember this"); err != nil {
		t.Fatalf("UpdateMemo: %v", err)
	}
	q, err := s.FindByID(ctx, ids[0])
	if err != nil || q == nil || q.Memo != "remember this" || q.Text != "second" {
		t.Errorf("after UpdateMemo: got %+v, %v", q, err)
	}

	if err := s.UpdateMemo(ctx, "missing", "x"); !errors.Is(err, ErrQuestionNotFound) {
		t.Errorf("UpdateMemo missing: got %v", err)
	}
}

func TestSortQuestionsKorean(t *testing.T) {
	items := []models.Question{{QuestionID: "하"}, {QuestionID: "가"}, {QuestionID: "다"}, {QuestionID: "나"}}
	SortQuestions(items)

	want := []string{"가", "나", "다", "하"}
	for i, q := range items {
		if q.QuestionID != want[i] {
			t.Errorf("position %d: got %q, want %q", i, q.QuestionID, want[i])
		}
	}
}
