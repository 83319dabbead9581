// Package lead implements the lead-record service.
//
// This is the single source of truth for stored lead batches: listing them
// for the dashboard, overriding phone columns after a failed auto-detection,
// producing filtered exports, and deleting a record together with its blobs.
//
// The service layer contains pure business logic and depends on the
// Repository and BlobStore interfaces defined in repository.go. It never
// imports net/http or database/sql directly.
package lead
