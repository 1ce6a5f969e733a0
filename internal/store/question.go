// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"quizdeck/internal/docstore"
	"quizdeck/internal/models"
)

// QuestionsCollection is the document collection holding questions.
const QuestionsCollection = "questions"

// QuestionStore manages questions in the document store.
type QuestionStore struct {
	ds docstore.Store
}

// NewQuestionStore returns a new QuestionStore.
func NewQuestionStore(ds docstore.Store) *QuestionStore {
	return &QuestionStore{ds: ds}
}

func decodeQuestion(doc docstore.Document) (*models.Question, error) {
	var q models.Question
	if err := docstore.Decode(doc.Fields, &q); err != nil {
		return nil, fmt.Errorf("decode question %s: %w", doc.ID, err)
	}
	q.ID = doc.ID
	return &q, nil
}

// ListByCategory returns the questions of a category ordered by their
// business key using Korean collation, the language the keys are
// usually written in.
func (s *QuestionStore) ListByCategory(ctx context.Context, categoryID string) ([]models.Question, error) {
	docs, err := s.ds.Find(ctx, QuestionsCollection, docstore.Eq("category_document_id", categoryID))
	if err != nil {
		return nil, fmt.Errorf("list questions by category: %w", err)
	}

	items := make([]models.Question, 0, len(docs))
	for _, doc := range docs {
		q, err := decodeQuestion(doc)
		if err != nil {
			return nil, err
		}
		items = append(items, *q)
	}

	SortQuestions(items)
	return items, nil
}

// SortQuestions orders questions by business key with Korean collation.
func SortQuestions(items []models.Question) {
	col := collate.New(language.Korean)
	sort.SliceStable(items, func(i, j int) bool {
		return col.CompareString(items[i].QuestionID, items[j].QuestionID) < 0
	})
}

// FindByID retrieves a question by document ID. Returns nil if not found.
func (s *QuestionStore) FindByID(ctx context.Context, id string) (*models.Question, error) {
	doc, err := s.ds.Get(ctx, QuestionsCollection, id)
	if err != nil {
		return nil, fmt.Errorf("find question by id: %w", err)
	}
	if doc == nil {
		return nil, nil
	}
	return decodeQuestion(*doc)
}

// FindByQuestionID retrieves a question by business key. Returns nil if not found.
func (s *QuestionStore) FindByQuestionID(ctx context.Context, key string) (*models.Question, error) {
	docs, err := s.ds.Find(ctx, QuestionsCollection, docstore.Eq("question_id", key))
	if err != nil {
		return nil, fmt.Errorf("find question %q: %w", key, err)
	}
	if len(docs) == 0 {
		return nil, nil
	}
	return decodeQuestion(docs[0])
}

// ExistsByQuestionID reports whether a question with the business key exists.
func (s *QuestionStore) ExistsByQuestionID(ctx context.Context, key string) (bool, error) {
	q, err := s.FindByQuestionID(ctx, key)
	if err != nil {
		return false, err
	}
	return q != nil, nil
}

// ErrQuestionNotFound is returned by UpdateMemo for an unknown question.
var ErrQuestionNotFound = errors.New("question not found")

// UpdateMemo replaces the memo of a question.
func (s *QuestionStore) UpdateMemo(ctx context.Context, id, memo string) error {
	err := s.ds.Update(ctx, QuestionsCollection, id, docstore.Fields{"memo": memo})
	if errors.Is(err, docstore.ErrNotFound) {
		return fmt.Errorf("update memo %s: %w", id, ErrQuestionNotFound)
	}
	if err != nil {
		return fmt.Errorf("update memo %s: %w", id, err)
	}
	return nil
}

// Stage assigns the question an ID and adds its creation to b.
func (s *QuestionStore) Stage(b *docstore.Batch, q *models.Question) (*models.Question, error) {
	fields, err := docstore.Encode(q)
	if err != nil {
		return nil, fmt.Errorf("stage question: %w", err)
	}

	staged := *q
	staged.ID = docstore.NewID()
	b.Set(QuestionsCollection, staged.ID, fields)
	return &staged, nil
}
