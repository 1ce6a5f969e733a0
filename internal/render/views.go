// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package render

import (
	"quizdeck/internal/activity"
	"quizdeck/internal/models"
)

// TreeView is the data of the "tree" fragment. Open holds the IDs of
// nodes rendered expanded: the selected category and its ancestors.
type TreeView struct {
	Root     *models.CategoryNode
	Selected string
	Open     map[string]bool
}

// NewTreeView builds a TreeView with path expanded and its last element
// selected. path is the ancestor chain returned by the category store.
func NewTreeView(root *models.CategoryNode, path []models.Category) TreeView {
	tv := TreeView{Root: root, Open: make(map[string]bool, len(path))}
	for _, c := range path {
		tv.Open[c.ID] = true
	}
	if len(path) > 0 {
		tv.Selected = path[len(path)-1].ID
	}
	return tv
}

// QuestionItem is one question as shown in the review list.
type QuestionItem struct {
	models.Question
	DisplayID string
}

// QuestionsView is the data of the "questions" fragment.
type QuestionsView struct {
	Category *models.Category
	Path     []models.Category
	Items    []QuestionItem
}

// NewQuestionsView pairs each question with its display ID.
func NewQuestionsView(category *models.Category, path []models.Category, questions []models.Question) QuestionsView {
	items := make([]QuestionItem, len(questions))
	for i, q := range questions {
		items[i] = QuestionItem{Question: q, DisplayID: q.DisplayID(i, len(questions))}
	}
	return QuestionsView{Category: category, Path: path, Items: items}
}

// LogView is the data of the "log" fragment.
type LogView struct {
	Visible bool
	Entries []activity.Entry
}
