package domain

import (
	"fmt"
	"time"
)

// LeadRecord is one uploaded batch of lead files: a main contact list, its
// dialables extract, and an optional unprocessed file, plus the campaign
// metadata pulled from the dialables export.
type LeadRecord struct {
	ID          string `json:"id" db:"id"`
	UserID      string `json:"user_id" db:"user_id"`
	EntryDate   string `json:"entry_date" db:"entry_date"`
	ListID      string `json:"list_id" db:"list_id"`
	AffiliateID string `json:"affiliate_id" db:"affiliate_id"`
	ClickID     string `json:"click_id" db:"click_id"`

	Filename      string `json:"filename" db:"filename"`
	FileSizeLabel string `json:"file_size" db:"file_size"`
	FileSizeBytes int64  `json:"file_size_bytes" db:"file_size_bytes"`

	// TotalLeads is the main file's full line count, header included.
	TotalLeads       int `json:"leads" db:"leads"`
	UploadedCount    int `json:"uploaded" db:"uploaded"`
	UnprocessedCount int `json:"unprocessed" db:"unprocessed"`

	MainFilePath        string `json:"main_file_path" db:"main_file_path"`
	DialablesFilePath   string `json:"dialables_file_path" db:"dialables_file_path"`
	UnprocessedFilePath string `json:"unprocessed_file_path,omitempty" db:"unprocessed_file_path"`

	// MainPhoneColumn is empty when auto-detection found nothing; the user
	// must set it before a filtered export can run.
	MainPhoneColumn      string `json:"main_phone_column,omitempty" db:"main_phone_column"`
	DialablesPhoneColumn string `json:"dialables_phone_column" db:"dialables_phone_column"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// FailedPercentage derives the share of leads that did not upload, formatted
// as the dashboard shows it ("73.52%"). Always computed at read time, never
// stored.
func (r LeadRecord) FailedPercentage() string {
	if r.TotalLeads <= 0 {
		return "0.00%"
	}
	pct := float64(r.TotalLeads-r.UploadedCount) / float64(r.TotalLeads) * 100
	return fmt.Sprintf("%.2f%%", pct)
}

// BlobPaths returns every storage path owned by the record, for deletion.
func (r LeadRecord) BlobPaths() []string {
	paths := []string{r.MainFilePath, r.DialablesFilePath}
	if r.UnprocessedFilePath != "" {
		paths = append(paths, r.UnprocessedFilePath)
	}
	return paths
}

// SizeLabel formats a byte count the way the dashboard displays file sizes.
func SizeLabel(bytes int64) string {
	return fmt.Sprintf("%.2f MB", float64(bytes)/(1024*1024))
}

// DashboardStats are the aggregate figures shown on the dashboard header
// cards.
type DashboardStats struct {
	TotalFiles     int    `json:"total_files"`
	TotalSizeLabel string `json:"total_size"`
	TotalLeads     int    `json:"total_leads"`
	TotalUploaded  int    `json:"total_uploaded"`
}
