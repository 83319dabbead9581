package lead

import (
	"context"
	"fmt"
	"strings"

	"github.com/ignite/lead-dashboard/internal/domain"
	"github.com/ignite/lead-dashboard/internal/leadfile"
)

// Service implements lead-record business logic. It is safe for concurrent
// use; every method takes typed inputs and returns typed outputs.
type Service struct {
	repo  Repository
	blobs BlobStore
}

// NewService creates a lead service backed by the given repository and blob
// store.
func NewService(repo Repository, blobs BlobStore) *Service {
	return &Service{repo: repo, blobs: blobs}
}

// Get returns one record owned by the user.
func (s *Service) Get(ctx context.Context, userID, id string) (*domain.LeadRecord, error) {
	return s.repo.Get(ctx, userID, id)
}

// List returns the user's records, newest first, optionally filtered by a
// search term.
func (s *Service) List(ctx context.Context, userID, search string) ([]domain.LeadRecord, error) {
	return s.repo.List(ctx, userID, strings.TrimSpace(search))
}

// Stats aggregates the dashboard header figures.
func (s *Service) Stats(ctx context.Context, userID string) (*domain.DashboardStats, error) {
	return s.repo.Stats(ctx, userID)
}

// OverridePhoneColumns updates the stored phone column choices after a
// failed or wrong auto-detection. Only the two column fields are mutable;
// everything else on a record is immutable after ingestion.
func (s *Service) OverridePhoneColumns(ctx context.Context, userID, id string, mainCol, dialablesCol *string) error {
	if mainCol == nil && dialablesCol == nil {
		return ErrNoFieldsToUpdate
	}
	return s.repo.UpdatePhoneColumns(ctx, userID, id, mainCol, dialablesCol)
}

// Export holds a filtered export ready for download.
type Export struct {
	Filename string
	Content  []byte
	Kept     int
	Removed  int
}

// BuildFilteredExport downloads the record's main and dialables blobs,
// rebuilds the uploaded-phone set, and returns a copy of the main file with
// already-dialed rows removed. The set is reconstructed on every call; nothing
// is cached between exports.
func (s *Service) BuildFilteredExport(ctx context.Context, userID, id string) (*Export, error) {
	rec, err := s.repo.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if rec.MainPhoneColumn == "" {
		return nil, ErrNoPhoneColumn
	}

	mainBytes, err := s.blobs.Download(ctx, rec.MainFilePath)
	if err != nil {
		return nil, fmt.Errorf("download main file: %w", err)
	}
	dialablesBytes, err := s.blobs.Download(ctx, rec.DialablesFilePath)
	if err != nil {
		return nil, fmt.Errorf("download dialables file: %w", err)
	}

	uploaded := leadfile.BuildUploadedSet(string(dialablesBytes), rec.DialablesPhoneColumn)
	res, err := leadfile.FilterUnuploaded(string(mainBytes), rec.MainPhoneColumn, uploaded)
	if err != nil {
		return nil, err
	}

	return &Export{
		Filename: "filtered_" + rec.Filename,
		Content:  []byte(res.Text),
		Kept:     res.Kept,
		Removed:  res.Removed,
	}, nil
}

// Delete removes a record and its stored files. Blob removal runs first; if
// it fails the database row is left untouched so the record never points at
// half-deleted storage.
func (s *Service) Delete(ctx context.Context, userID, id string) error {
	rec, err := s.repo.Get(ctx, userID, id)
	if err != nil {
		return err
	}
	if err := s.blobs.Remove(ctx, rec.BlobPaths()); err != nil {
		return fmt.Errorf("remove stored files: %w", err)
	}
	return s.repo.Delete(ctx, userID, id)
}
