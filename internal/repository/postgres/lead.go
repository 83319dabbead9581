package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/ignite/lead-dashboard/internal/domain"
	"github.com/ignite/lead-dashboard/internal/service/lead"
)

// LeadRepo implements lead.Repository against PostgreSQL.
type LeadRepo struct{ db *sql.DB }

// NewLeadRepo creates a Postgres-backed lead record repository.
func NewLeadRepo(db *sql.DB) *LeadRepo { return &LeadRepo{db: db} }

const leadColumns = `id, user_id, entry_date, list_id, affiliate_id, click_id,
	filename, file_size, file_size_bytes, leads, uploaded, unprocessed,
	main_file_path, dialables_file_path, unprocessed_file_path,
	main_phone_column, dialables_phone_column, created_at`

func scanLead(row interface{ Scan(...any) error }) (*domain.LeadRecord, error) {
	var rec domain.LeadRecord
	var unprocessedPath sql.NullString
	err := row.Scan(
		&rec.ID, &rec.UserID, &rec.EntryDate, &rec.ListID, &rec.AffiliateID, &rec.ClickID,
		&rec.Filename, &rec.FileSizeLabel, &rec.FileSizeBytes, &rec.TotalLeads,
		&rec.UploadedCount, &rec.UnprocessedCount,
		&rec.MainFilePath, &rec.DialablesFilePath, &unprocessedPath,
		&rec.MainPhoneColumn, &rec.DialablesPhoneColumn, &rec.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	rec.UnprocessedFilePath = unprocessedPath.String
	return &rec, nil
}

func (r *LeadRepo) Insert(ctx context.Context, rec *domain.LeadRecord) error {
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	var unprocessedPath sql.NullString
	if rec.UnprocessedFilePath != "" {
		unprocessedPath = sql.NullString{String: rec.UnprocessedFilePath, Valid: true}
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO lead_records (
			id, user_id, entry_date, list_id, affiliate_id, click_id,
			filename, file_size, file_size_bytes, leads, uploaded, unprocessed,
			main_file_path, dialables_file_path, unprocessed_file_path,
			main_phone_column, dialables_phone_column, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, NOW())
	`, rec.ID, rec.UserID, rec.EntryDate, rec.ListID, rec.AffiliateID, rec.ClickID,
		rec.Filename, rec.FileSizeLabel, rec.FileSizeBytes, rec.TotalLeads,
		rec.UploadedCount, rec.UnprocessedCount,
		rec.MainFilePath, rec.DialablesFilePath, unprocessedPath,
		rec.MainPhoneColumn, rec.DialablesPhoneColumn)
	if err != nil {
		return fmt.Errorf("insert lead record: %w", err)
	}
	return nil
}

func (r *LeadRepo) Get(ctx context.Context, userID, id string) (*domain.LeadRecord, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+leadColumns+` FROM lead_records WHERE id = $1 AND user_id = $2`,
		id, userID,
	)
	rec, err := scanLead(row)
	if err == sql.ErrNoRows {
		return nil, lead.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get lead record: %w", err)
	}
	return rec, nil
}

func (r *LeadRepo) List(ctx context.Context, userID, search string) ([]domain.LeadRecord, error) {
	query := `SELECT ` + leadColumns + ` FROM lead_records WHERE user_id = $1`
	args := []any{userID}
	if search != "" {
		query += ` AND (filename ILIKE $2 OR list_id ILIKE $2 OR affiliate_id ILIKE $2)`
		args = append(args, "%"+strings.TrimSpace(search)+"%")
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list lead records: %w", err)
	}
	defer rows.Close()

	var out []domain.LeadRecord
	for rows.Next() {
		rec, err := scanLead(rows)
		if err != nil {
			return nil, fmt.Errorf("scan lead record: %w", err)
		}
		out = append(out, *rec)
	}
	return out, rows.Err()
}

func (r *LeadRepo) UpdatePhoneColumns(ctx context.Context, userID, id string, mainCol, dialablesCol *string) error {
	sets := make([]string, 0, 2)
	args := []any{id, userID}
	if mainCol != nil {
		args = append(args, *mainCol)
		sets = append(sets, fmt.Sprintf("main_phone_column = $%d", len(args)))
	}
	if dialablesCol != nil {
		args = append(args, *dialablesCol)
		sets = append(sets, fmt.Sprintf("dialables_phone_column = $%d", len(args)))
	}
	if len(sets) == 0 {
		return lead.ErrNoFieldsToUpdate
	}

	res, err := r.db.ExecContext(ctx,
		`UPDATE lead_records SET `+strings.Join(sets, ", ")+` WHERE id = $1 AND user_id = $2`,
		args...,
	)
	if err != nil {
		return fmt.Errorf("update phone columns: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return lead.ErrNotFound
	}
	return nil
}

func (r *LeadRepo) Delete(ctx context.Context, userID, id string) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM lead_records WHERE id = $1 AND user_id = $2`,
		id, userID,
	)
	if err != nil {
		return fmt.Errorf("delete lead record: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return lead.ErrNotFound
	}
	return nil
}

func (r *LeadRepo) Stats(ctx context.Context, userID string) (*domain.DashboardStats, error) {
	var stats domain.DashboardStats
	var totalBytes int64
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*),
		       COALESCE(SUM(file_size_bytes), 0),
		       COALESCE(SUM(leads), 0),
		       COALESCE(SUM(uploaded), 0)
		FROM lead_records WHERE user_id = $1
	`, userID).Scan(&stats.TotalFiles, &totalBytes, &stats.TotalLeads, &stats.TotalUploaded)
	if err != nil {
		return nil, fmt.Errorf("lead stats: %w", err)
	}
	stats.TotalSizeLabel = domain.SizeLabel(totalBytes)
	return &stats, nil
}
