package leadfile

import (
	"errors"
	"fmt"
	"strings"
)

// ErrColumnNotFound is returned when the configured phone column is absent
// from a file's header at reconciliation time. The caller surfaces it with a
// prompt to pick a column manually.
var ErrColumnNotFound = errors.New("phone column not found in header")

// BuildUploadedSet collects the normalized phone numbers already dialed from
// a dialables file. The file is tab-delimited; rows with an empty or missing
// phone cell are skipped. The set is transient — rebuilt fresh for every
// export, never cached.
func BuildUploadedSet(dialablesText, phoneColumn string) map[string]struct{} {
	set := make(map[string]struct{})

	rows := SplitRows(dialablesText)
	if len(rows) < 2 {
		return set
	}

	idx := HeaderIndex(rows[0], Tab)
	col, ok := idx[phoneColumn]
	if !ok {
		return set
	}

	for _, row := range rows[1:] {
		cells := SplitRow(row, Tab)
		if col >= len(cells) {
			continue
		}
		phone := NormalizePhone(cells[col])
		if phone == "" {
			continue
		}
		set[phone] = struct{}{}
	}
	return set
}

// FilterResult is the outcome of filtering a main file against an
// uploaded-phone set.
type FilterResult struct {
	Text    string // header plus kept rows, newline-joined
	Kept    int    // data rows retained
	Removed int    // data rows dropped because already uploaded
}

// FilterUnuploaded produces a copy of the main file containing only rows
// whose phone number is not in uploadedSet. The main file is comma- or
// semicolon-delimited (tab is never a valid main-file delimiter); the header
// row is always retained. Equality is raw digit-string equality per
// NormalizePhone, so rows whose phone fails to normalize to a value in the
// set are kept — including malformed numbers.
//
// Kept + Removed always equals the number of data rows in the input.
func FilterUnuploaded(mainText, phoneColumn string, uploadedSet map[string]struct{}) (FilterResult, error) {
	rows := SplitRows(mainText)
	if len(rows) == 0 {
		return FilterResult{}, fmt.Errorf("%w: %q (empty file)", ErrColumnNotFound, phoneColumn)
	}

	// Main files are comma- or semicolon-delimited; tab never applies here.
	delim := Comma
	if n := strings.Count(rows[0], ";"); n > 0 && n >= strings.Count(rows[0], ",") {
		delim = Semicolon
	}

	idx := HeaderIndex(rows[0], delim)
	col, ok := idx[phoneColumn]
	if !ok {
		return FilterResult{}, fmt.Errorf("%w: %q", ErrColumnNotFound, phoneColumn)
	}

	kept := make([]string, 0, len(rows))
	kept = append(kept, rows[0])

	res := FilterResult{}
	for _, row := range rows[1:] {
		cells := SplitRow(row, delim)
		phone := ""
		if col < len(cells) {
			phone = NormalizePhone(cells[col])
		}
		if _, uploaded := uploadedSet[phone]; uploaded {
			res.Removed++
			continue
		}
		res.Kept++
		kept = append(kept, row)
	}

	res.Text = strings.Join(kept, "\n")
	return res, nil
}
