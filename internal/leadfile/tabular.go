// Package leadfile implements the parsing and reconciliation engine for lead
// contact files: delimiter sniffing, filename classification, phone-column
// detection, dialables metadata extraction, and filtering of already-dialed
// contacts out of a main list.
//
// All functions in this package are pure: they take file text in and return
// typed results out. Storage and persistence live in internal/ingest and
// internal/repository.
package leadfile

import "strings"

// Delimiter identifies the cell separator of a tabular text file.
type Delimiter int

const (
	Comma Delimiter = iota
	Semicolon
	Tab
)

// Rune returns the separator character for the delimiter.
func (d Delimiter) Rune() rune {
	switch d {
	case Semicolon:
		return ';'
	case Tab:
		return '\t'
	default:
		return ','
	}
}

// String returns a human-readable name, used in logs and API payloads.
func (d Delimiter) String() string {
	switch d {
	case Semicolon:
		return "semicolon"
	case Tab:
		return "tab"
	default:
		return "comma"
	}
}

// DetectDelimiter sniffs the delimiter from the first line of text. Header
// rows reveal delimiter density reliably even when data rows contain embedded
// punctuation, so only the first line is inspected. Ties break toward tab,
// then semicolon: a header with equal tab and comma counts is treated as
// tab-delimited.
func DetectDelimiter(text string) Delimiter {
	firstLine := text
	if i := strings.IndexByte(strings.TrimSpace(text), '\n'); i >= 0 {
		firstLine = strings.TrimSpace(text)[:i]
	} else {
		firstLine = strings.TrimSpace(text)
	}

	commas := strings.Count(firstLine, ",")
	semicolons := strings.Count(firstLine, ";")
	tabs := strings.Count(firstLine, "\t")

	if tabs >= semicolons && tabs >= commas && tabs > 0 {
		return Tab
	}
	if semicolons >= commas && semicolons > 0 {
		return Semicolon
	}
	return Comma
}

// SplitRows splits file text into rows. The text is trimmed as a whole first
// so trailing newlines never produce a phantom empty row.
func SplitRows(text string) []string {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil
	}
	return strings.Split(trimmed, "\n")
}

// SplitRow splits a single row into cells. The split is naive: quoted fields
// containing the delimiter are not supported. That matches the upstream file
// producers, which never quote cells.
func SplitRow(row string, d Delimiter) []string {
	return strings.Split(row, string(d.Rune()))
}

// HeaderIndex maps trimmed header names to their column positions. Built once
// per file so row lookups by column name avoid repeated linear scans.
func HeaderIndex(headerRow string, d Delimiter) map[string]int {
	cells := SplitRow(headerRow, d)
	idx := make(map[string]int, len(cells))
	for i, c := range cells {
		name := strings.TrimSpace(c)
		if _, seen := idx[name]; !seen {
			idx[name] = i
		}
	}
	return idx
}

// NormalizePhone strips every non-digit character from a phone cell. Two
// numbers are the same contact iff their digit-only forms are byte-equal; a
// leading "1" country code is deliberately not stripped, so "+1 (555)
// 123-4567" and "5551234567" normalize to different values. Callers that
// compare across files inherit that asymmetry.
func NormalizePhone(cell string) string {
	var b strings.Builder
	b.Grow(len(cell))
	for i := 0; i < len(cell); i++ {
		if cell[i] >= '0' && cell[i] <= '9' {
			b.WriteByte(cell[i])
		}
	}
	return b.String()
}
