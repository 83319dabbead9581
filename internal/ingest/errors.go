package ingest

import "errors"

// Sentinel errors classifying ingestion failures. Handlers map these onto
// HTTP status codes, so each stage wraps its failures with exactly one of
// them.
var (
	// ErrClassify means the uploaded filenames don't form a valid batch.
	ErrClassify = errors.New("file classification failed")

	// ErrParse means a file's content could not be interpreted.
	ErrParse = errors.New("file parsing failed")

	// ErrUpload means blob storage rejected one of the files.
	ErrUpload = errors.New("file upload failed")

	// ErrBusy means another upload for the same affiliate holds the ingest
	// lock. Retry once it completes.
	ErrBusy = errors.New("another upload for this affiliate is in flight")

	// ErrPersist means the database insert failed after files were already
	// uploaded. The wrapped message names the orphaned blob paths.
	ErrPersist = errors.New("record persistence failed")
)
