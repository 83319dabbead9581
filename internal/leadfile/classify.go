package leadfile

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnknownFileType is returned when a filename matches no naming rule.
	ErrUnknownFileType = errors.New("could not detect file type from filename")

	// ErrDuplicateRole is returned when two files in a batch classify to the
	// same role.
	ErrDuplicateRole = errors.New("duplicate file for role")

	// ErrMissingFile is returned when a batch lacks a main or dialables file.
	ErrMissingFile = errors.New("missing required file")
)

// FileRole is the role a file plays in an upload batch, derived from its
// filename.
type FileRole string

const (
	RoleMain        FileRole = "main"
	RoleDialables   FileRole = "dialables"
	RoleUnprocessed FileRole = "unprocessed"
	RoleUnknown     FileRole = "unknown"
)

// Classify maps a filename to its role. Rules are checked in priority order
// because several can match the same name:
//
//  1. "_unprocessed" anywhere in the name → unprocessed
//  2. "LIST_" anywhere, or a .txt that is not a .csv → dialables
//  3. .csv → main
//  4. anything else → unknown
func Classify(filename string) FileRole {
	if strings.Contains(filename, "_unprocessed") {
		return RoleUnprocessed
	}
	if strings.Contains(filename, "LIST_") ||
		(!strings.HasSuffix(filename, ".csv") && strings.HasSuffix(filename, ".txt")) {
		return RoleDialables
	}
	if strings.HasSuffix(filename, ".csv") {
		return RoleMain
	}
	return RoleUnknown
}

// Batch is the classified result of an upload: exactly one main and one
// dialables file, plus an optional unprocessed file.
type Batch struct {
	Main        string
	Dialables   string
	Unprocessed string // empty when absent
}

// HasUnprocessed reports whether the optional unprocessed file is present.
func (b Batch) HasUnprocessed() bool { return b.Unprocessed != "" }

// ClassifyBatch assigns roles to a set of filenames. Unclassifiable or
// surplus files are reported as per-file errors without failing the batch;
// the batch itself fails only when main or dialables is absent. The returned
// Batch is valid iff err is nil; fileErrs may be non-empty either way.
func ClassifyBatch(filenames []string) (batch Batch, fileErrs []error, err error) {
	for _, name := range filenames {
		switch role := Classify(name); role {
		case RoleMain:
			if batch.Main != "" {
				fileErrs = append(fileErrs, fmt.Errorf("%w %q: %s", ErrDuplicateRole, role, name))
				continue
			}
			batch.Main = name
		case RoleDialables:
			if batch.Dialables != "" {
				fileErrs = append(fileErrs, fmt.Errorf("%w %q: %s", ErrDuplicateRole, role, name))
				continue
			}
			batch.Dialables = name
		case RoleUnprocessed:
			if batch.Unprocessed != "" {
				fileErrs = append(fileErrs, fmt.Errorf("%w %q: %s", ErrDuplicateRole, role, name))
				continue
			}
			batch.Unprocessed = name
		default:
			fileErrs = append(fileErrs, fmt.Errorf("%w: %s", ErrUnknownFileType, name))
		}
	}

	if batch.Main == "" {
		return batch, fileErrs, fmt.Errorf("%w: main (.csv)", ErrMissingFile)
	}
	if batch.Dialables == "" {
		return batch, fileErrs, fmt.Errorf("%w: dialables (LIST_ or .txt)", ErrMissingFile)
	}
	return batch, fileErrs, nil
}
