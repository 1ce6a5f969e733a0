// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"path/filepath"
	"strings"
	"unicode/utf8"

	"quizdeck/internal/storage"
)

// maxMemoLen caps a memo in characters.
const maxMemoLen = 10_000

// uploadExtensions lists the file types each importer accepts.
var uploadExtensions = map[storage.Kind]map[string]bool{
	storage.KindCategories: {".txt": true, ".csv": true},
	storage.KindQuestions:  {".csv": true, ".tsv": true, ".txt": true, ".xlsx": true, ".xlsm": true},
}

// validateUpload checks the uploaded file name for kind and returns the
// first error found.
func validateUpload(kind storage.Kind, filename string) string {
	name := strings.TrimSpace(filename)
	if name == "" {
		return "File name is required."
	}
	ext := strings.ToLower(filepath.Ext(name))
	if !uploadExtensions[kind][ext] {
		if kind == storage.KindCategories {
			return "Category files must be .txt or .csv."
		}
		return "Question files must be .csv, .tsv, .txt, .xlsx or .xlsm."
	}
	return ""
}

// validateMemo checks a memo edit.
func validateMemo(memo string) string {
	if utf8.RuneCountInString(memo) > maxMemoLen {
		return "Memo is too long (max 10,000 characters)."
	}
	if !utf8.ValidString(memo) {
		return "Memo is not valid UTF-8."
	}
	return ""
}
