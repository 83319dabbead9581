package lead

import (
	"context"

	"github.com/ignite/lead-dashboard/internal/domain"
)

// Repository defines the data access contract for lead records.
type Repository interface {
	// Insert persists a new record. The repository assigns the ID if empty.
	Insert(ctx context.Context, rec *domain.LeadRecord) error

	// Get returns one record by ID. Returns ErrNotFound if it doesn't exist.
	Get(ctx context.Context, userID, id string) (*domain.LeadRecord, error)

	// List returns records for a user ordered by created_at descending,
	// optionally filtered by a search term matched against filename, list id,
	// and affiliate id.
	List(ctx context.Context, userID, search string) ([]domain.LeadRecord, error)

	// UpdatePhoneColumns overrides the stored phone column choices. Nil
	// pointers leave the corresponding field untouched. Last write wins; no
	// version check is performed.
	UpdatePhoneColumns(ctx context.Context, userID, id string, mainCol, dialablesCol *string) error

	// Delete removes the record row. Returns ErrNotFound if it doesn't exist.
	Delete(ctx context.Context, userID, id string) error

	// Stats aggregates the dashboard figures across a user's records.
	Stats(ctx context.Context, userID string) (*domain.DashboardStats, error)
}

// BlobStore is the contract for the file storage backend holding the raw
// uploaded files.
type BlobStore interface {
	Upload(ctx context.Context, path string, data []byte) (string, error)
	Download(ctx context.Context, path string) ([]byte, error)
	Remove(ctx context.Context, paths []string) error
}
