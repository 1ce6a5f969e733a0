// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"fmt"
	"strconv"
	"strings"
)

// Question is a single O/X question. Only Memo changes after import.
type Question struct {
	ID            string `json:"-"`
	QuestionID    string `json:"question_id"`
	Text          string `json:"question_text"`
	CorrectAnswer bool   `json:"correct_answer"`
	Hint          string `json:"hint"`
	Explanation   string `json:"explanation"`
	Memo          string `json:"memo"`
	CategoryID    string `json:"category_document_id"`
}

// Choice is an operator's answer to a question.
type Choice string

const (
	ChoiceO Choice = "O"
	ChoiceX Choice = "X"
)

// ParseChoice accepts "O" or "X" in either case.
func ParseChoice(s string) (Choice, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "O":
		return ChoiceO, nil
	case "X":
		return ChoiceX, nil
	}
	return "", fmt.Errorf("invalid choice %q", s)
}

// Check reports whether the choice is correct: O for true questions, X for false ones.
func (q Question) Check(c Choice) bool {
	return (c == ChoiceO) == q.CorrectAnswer
}

// AnswerLabel is the label shown for the correct answer.
func (q Question) AnswerLabel() string {
	if q.CorrectAnswer {
		return "O Correct"
	}
	return "X Wrong"
}

// DisplayID returns the business key, or the 1-based position padded to
// the width of total when the key is blank.
func (q Question) DisplayID(index, total int) string {
	if id := strings.TrimSpace(q.QuestionID); id != "" {
		return id
	}
	width := len(strconv.Itoa(total))
	return fmt.Sprintf("%0*d", width, index+1)
}
