// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package slug

import (
	"strings"
	"testing"
)

func TestGenerate(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "simple two words", input: "Hello World", want: "hello-world"},
		{name: "underscores and dots", input: "quiz_sheet.final", want: "quiz-sheet-final"},
		{name: "punctuation dropped", input: "Rock & Roll (v2)!", want: "rock-roll-v2"},
		{name: "accents folded", input: "Révision Été", want: "revision-ete"},
		{name: "hangul dropped", input: "질문 목록 2026", want: "2026"},
		{name: "only hangul", input: "카테고리", want: ""},
		{name: "leading and trailing separators", input: "  --a b--  ", want: "a-b"},
		{name: "path separators", input: `dir\sub/file`, want: "dir-sub-file"},
		{name: "empty", input: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Generate(tt.input); got != tt.want {
				t.Errorf("Generate(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestGenerateTruncates(t *testing.T) {
	got := Generate(strings.Repeat("ab ", 40))
	if len(got) > maxLen {
		t.Errorf("slug length %d exceeds %d", len(got), maxLen)
	}
	if strings.HasSuffix(got, "-") {
		t.Errorf("truncated slug %q ends with a hyphen", got)
	}
}

func TestFileName(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Quiz Sheet (v2).XLSX", "quiz-sheet-v2.xlsx"},
		{"paths.txt", "paths.txt"},
		{`C:\Users\me\Desktop\Questions.csv`, "questions.csv"},
		{"/tmp/upload/data.TSV", "data.tsv"},
		{"문제.csv", ""},
		{"noext", "noext"},
	}
	for _, tt := range tests {
		if got := FileName(tt.input); got != tt.want {
			t.Errorf("FileName(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
