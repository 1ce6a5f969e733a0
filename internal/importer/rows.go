// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Row is one question row of an upload, with cells mapped by header.
type Row struct {
	// Line is the 1-based row number in the sheet, counting the header.
	Line        int
	QuestionID  string
	Text        string
	Answer      any
	Category    string
	Hint        string
	Explanation string
}

type column int

const (
	colQuestionID column = iota
	colText
	colAnswer
	colCategory
	colHint
	colExplanation
)

// headerAliases maps lowercased header names to columns. Sheets exported
// from the Korean authoring template use the Korean names.
var headerAliases = map[string]column{
	"question_id":    colQuestionID,
	"id":             colQuestionID,
	"고유번호":           colQuestionID,
	"question":       colText,
	"question_text":  colText,
	"질문":             colText,
	"answer":         colAnswer,
	"correct_answer": colAnswer,
	"정답":             colAnswer,
	"category":       colCategory,
	"카테고리":           colCategory,
	"hint":           colHint,
	"힌트":             colHint,
	"explanation":    colExplanation,
	"해설":             colExplanation,
}

var requiredColumns = map[column]string{
	colQuestionID: "question_id",
	colText:       "question",
	colCategory:   "category",
}

// ReadRows parses a question sheet, choosing the reader from the file
// extension: .csv, .tsv and .txt are delimited text, .xlsx is a workbook
// whose first sheet is read.
func ReadRows(filename string, r io.Reader) ([]Row, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv", ".txt":
		return readDelimited(r, ',')
	case ".tsv":
		return readDelimited(r, '\t')
	case ".xlsx", ".xlsm":
		return readWorkbook(r)
	default:
		return nil, fmt.Errorf("%q: %w", filename, ErrUnsupportedFormat)
	}
}

func readDelimited(r io.Reader, delim rune) ([]Row, error) {
	cr := csv.NewReader(r)
	cr.Comma = delim
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read sheet: %w: %v", ErrMalformedInput, err)
	}
	return mapRecords(records)
}

func readWorkbook(r io.Reader) ([]Row, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w: %v", ErrMalformedInput, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("open workbook: %w: no sheets", ErrMalformedInput)
	}

	// Raw values keep number formats out of the cells: a 1 styled as
	// "0.00" must still read as 1.
	records, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w: %v", sheets[0], ErrMalformedInput, err)
	}
	return mapRecords(records)
}

// mapRecords turns raw records into rows using the header record.
// Records with every cell blank are dropped.
func mapRecords(records [][]string) ([]Row, error) {
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: empty sheet", ErrMalformedInput)
	}

	index, err := mapHeader(records[0])
	if err != nil {
		return nil, err
	}

	var rows []Row
	for i, rec := range records[1:] {
		if blank(rec) {
			continue
		}
		cell := func(c column) string {
			pos, ok := index[c]
			if !ok || pos >= len(rec) {
				return ""
			}
			return strings.TrimSpace(rec[pos])
		}
		rows = append(rows, Row{
			Line:        i + 2,
			QuestionID:  cell(colQuestionID),
			Text:        cell(colText),
			Answer:      cell(colAnswer),
			Category:    cell(colCategory),
			Hint:        cell(colHint),
			Explanation: cell(colExplanation),
		})
	}
	return rows, nil
}

func mapHeader(header []string) (map[column]int, error) {
	index := make(map[column]int)
	for i, h := range header {
		if i == 0 {
			h = strings.TrimPrefix(h, "\ufeff")
		}
		c, ok := headerAliases[strings.ToLower(strings.TrimSpace(h))]
		if !ok {
			continue
		}
		if _, dup := index[c]; !dup {
			index[c] = i
		}
	}

	var missing []string
	for c, name := range requiredColumns {
		if _, ok := index[c]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return nil, fmt.Errorf("%w: missing column(s) %s", ErrMalformedInput, strings.Join(missing, ", "))
	}
	return index, nil
}

func blank(rec []string) bool {
	for _, v := range rec {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

