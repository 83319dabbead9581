package lead

import "errors"

// Sentinel errors for the lead service layer.
var (
	ErrNotFound = errors.New("lead record not found")

	// ErrNoPhoneColumn means the record has no main phone column set, so a
	// filtered export cannot run until the user picks one.
	ErrNoPhoneColumn = errors.New("record has no main phone column configured")

	// ErrNoFieldsToUpdate means a column-override request named no columns.
	ErrNoFieldsToUpdate = errors.New("no phone column fields to update")
)
