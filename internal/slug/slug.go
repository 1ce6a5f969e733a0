// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package slug turns uploaded file names into short ASCII identifiers that
// are safe in object keys and S3 user metadata.
package slug

import (
	"path/filepath"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// maxLen caps a slug so keys stay readable.
const maxLen = 48

var (
	// separators become hyphens.
	separators = regexp.MustCompile(`[\s_./\\]+`)
	// nonAlphanumeric matches anything left that isn't a-z, 0-9 or a hyphen.
	nonAlphanumeric = regexp.MustCompile(`[^a-z0-9-]`)
	// multipleHyphens collapses consecutive hyphens into one.
	multipleHyphens = regexp.MustCompile(`-{2,}`)
)

// Generate creates an ASCII slug from s. Accented Latin letters lose their
// marks; scripts with no ASCII form are dropped, so the result may be empty.
// Example: "Révision Été 2026" → "revision-ete-2026"
func Generate(s string) string {
	t := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}

	result := strings.ToLower(strings.TrimSpace(folded))
	result = separators.ReplaceAllString(result, "-")
	result = nonAlphanumeric.ReplaceAllString(result, "")
	result = multipleHyphens.ReplaceAllString(result, "-")
	result = strings.Trim(result, "-")
	if len(result) > maxLen {
		result = strings.TrimRight(result[:maxLen], "-")
	}
	return result
}

// FileName slugs the stem of a file name and keeps its lowercased
// extension. It returns "" when the stem has no ASCII form.
// Example: "Quiz Sheet (v2).XLSX" → "quiz-sheet-v2.xlsx"
func FileName(name string) string {
	base := filepath.Base(strings.ReplaceAll(name, `\`, "/"))
	ext := filepath.Ext(base)
	stem := Generate(strings.TrimSuffix(base, ext))
	if stem == "" {
		return ""
	}
	return stem + strings.ToLower(ext)
}
