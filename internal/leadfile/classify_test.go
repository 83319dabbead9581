package leadfile

import (
	"errors"
	"testing"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		filename string
		want     FileRole
	}{
		{"LIST_123.txt", RoleDialables},
		{"LIST_9265.csv", RoleDialables}, // LIST_ outranks the .csv rule
		{"export.csv", RoleMain},
		{"16 - 468ed406a837e21.06053311.csv", RoleMain},
		{"dialables.txt", RoleDialables},
		{"report_unprocessed.csv", RoleUnprocessed}, // outranks the main rule
		{"LIST_1_unprocessed.txt", RoleUnprocessed}, // outranks the dialables rule
		{"data.json", RoleUnknown},
		{"notes.csv.txt", RoleDialables},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			if got := Classify(tt.filename); got != tt.want {
				t.Errorf("Classify(%q) = %v, want %v", tt.filename, got, tt.want)
			}
		})
	}
}

func TestClassifyBatch_Valid(t *testing.T) {
	batch, fileErrs, err := ClassifyBatch([]string{"main.csv", "LIST_9265.txt"})
	if err != nil {
		t.Fatalf("ClassifyBatch() error = %v", err)
	}
	if len(fileErrs) != 0 {
		t.Fatalf("unexpected file errors: %v", fileErrs)
	}
	if batch.Main != "main.csv" || batch.Dialables != "LIST_9265.txt" {
		t.Errorf("unexpected batch: %+v", batch)
	}
	if batch.HasUnprocessed() {
		t.Error("batch should not have an unprocessed file")
	}
}

func TestClassifyBatch_WithUnprocessed(t *testing.T) {
	batch, _, err := ClassifyBatch([]string{"main.csv", "LIST_1.txt", "main_unprocessed.csv"})
	if err != nil {
		t.Fatalf("ClassifyBatch() error = %v", err)
	}
	if batch.Unprocessed != "main_unprocessed.csv" {
		t.Errorf("Unprocessed = %q", batch.Unprocessed)
	}
}

func TestClassifyBatch_MissingDialables(t *testing.T) {
	_, _, err := ClassifyBatch([]string{"main.csv"})
	if !errors.Is(err, ErrMissingFile) {
		t.Errorf("err = %v, want ErrMissingFile", err)
	}
}

func TestClassifyBatch_SurplusIsNonFatal(t *testing.T) {
	batch, fileErrs, err := ClassifyBatch([]string{"a.csv", "b.csv", "LIST_1.txt", "x.json"})
	if err != nil {
		t.Fatalf("ClassifyBatch() error = %v", err)
	}
	if batch.Main != "a.csv" {
		t.Errorf("Main = %q, want first match kept", batch.Main)
	}
	if len(fileErrs) != 2 {
		t.Fatalf("fileErrs = %v, want duplicate-role and unknown-type entries", fileErrs)
	}
	if !errors.Is(fileErrs[0], ErrDuplicateRole) {
		t.Errorf("fileErrs[0] = %v, want ErrDuplicateRole", fileErrs[0])
	}
	if !errors.Is(fileErrs[1], ErrUnknownFileType) {
		t.Errorf("fileErrs[1] = %v, want ErrUnknownFileType", fileErrs[1])
	}
}
