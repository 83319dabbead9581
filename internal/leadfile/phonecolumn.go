package leadfile

import (
	"math"
	"strings"
)

const (
	// phoneSampleRows caps how many data rows the detector inspects. Sampling
	// bounds cost on multi-hundred-megabyte files without hurting accuracy.
	phoneSampleRows = 10

	// phoneMatchRatio is the fraction of sampled rows that must hold a valid
	// phone number for a column to qualify.
	phoneMatchRatio = 0.6

	// phoneMatchFloor is the minimum absolute number of valid cells required,
	// so tiny samples cannot qualify a column off one or two lucky rows.
	phoneMatchFloor = 3
)

// DetectPhoneColumn statistically identifies which column of a delimited file
// holds phone numbers. It sniffs the delimiter, samples up to the first
// phoneSampleRows data rows, and counts cells whose digit-stripped form has
// exactly 10 or 11 digits. The first column (in header order) reaching
// max(phoneMatchFloor, ceil(rows*phoneMatchRatio)) valid cells wins.
//
// Returns ("", false) when the file has fewer than one data row or no column
// qualifies; callers treat that as a soft outcome and let the user pick a
// column manually.
func DetectPhoneColumn(text string) (string, bool) {
	rows := SplitRows(text)

	// Drop blank rows before counting.
	compact := rows[:0]
	for _, r := range rows {
		if strings.TrimSpace(r) != "" {
			compact = append(compact, r)
		}
	}
	rows = compact

	if len(rows) < 2 {
		return "", false
	}

	delim := DetectDelimiter(text)
	headers := SplitRow(rows[0], delim)

	dataRows := rows[1:]
	rowsToCheck := len(dataRows)
	if rowsToCheck > phoneSampleRows {
		rowsToCheck = phoneSampleRows
	}

	minValid := int(math.Ceil(float64(rowsToCheck) * phoneMatchRatio))
	if minValid < phoneMatchFloor {
		minValid = phoneMatchFloor
	}

	for colIndex, header := range headers {
		valid := 0
		for _, row := range dataRows[:rowsToCheck] {
			cells := SplitRow(row, delim)
			if colIndex >= len(cells) {
				continue
			}
			cell := strings.TrimSpace(cells[colIndex])
			if cell == "" {
				continue
			}
			if n := len(NormalizePhone(cell)); n == 10 || n == 11 {
				valid++
			}
		}
		if valid >= minValid {
			return strings.TrimSpace(header), true
		}
	}
	return "", false
}
