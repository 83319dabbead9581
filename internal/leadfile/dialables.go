package leadfile

import (
	"errors"
	"strings"
)

// ErrNoDataRows is returned when a dialables file has a header but no data
// row, or is empty entirely. Ingestion cannot proceed without the metadata
// carried on the first data row.
var ErrNoDataRows = errors.New("dialables file is empty or has no data rows")

// DialablesSummary holds the campaign metadata extracted from a dialables
// file. All fields come from the header plus the first data row; RowCount is
// the number of data rows in the whole file.
type DialablesSummary struct {
	EntryDate   string `json:"entry_date"` // YYYY-MM-DD, time-of-day dropped
	ListID      string `json:"list_id"`
	AffiliateID string `json:"affiliate_id"`
	ClickID     string `json:"click_id"`
	RowCount    int    `json:"row_count"`
}

// Dialables column names as produced by the dialer export.
const (
	dialablesEntryDateCol   = "entry_date"
	dialablesListIDCol      = "list_id"
	dialablesAffiliateCol   = "vendor_lead_code"
	dialablesClickIDCol     = "source_id"
	DialablesPhoneColumn    = "phone_numbers" // default phone column on records
)

// ExtractDialablesSummary parses a dialables file. The format is always
// tab-delimited by convention, so the delimiter is not sniffed. Summary
// fields are read from the first data row only; a column missing from the
// header yields an empty field rather than an error.
func ExtractDialablesSummary(text string) (DialablesSummary, error) {
	rows := SplitRows(text)
	if len(rows) < 2 {
		return DialablesSummary{}, ErrNoDataRows
	}

	idx := HeaderIndex(rows[0], Tab)
	firstRow := SplitRow(rows[1], Tab)

	col := func(name string) string {
		i, ok := idx[name]
		if !ok || i >= len(firstRow) {
			return ""
		}
		return firstRow[i]
	}

	entryDate := col(dialablesEntryDateCol)
	// Keep only the date portion of "2025-09-19 14:02:11".
	if sp := strings.IndexByte(entryDate, ' '); sp >= 0 {
		entryDate = entryDate[:sp]
	}

	return DialablesSummary{
		EntryDate:   entryDate,
		ListID:      col(dialablesListIDCol),
		AffiliateID: col(dialablesAffiliateCol),
		ClickID:     col(dialablesClickIDCol),
		RowCount:    len(rows) - 1,
	}, nil
}
