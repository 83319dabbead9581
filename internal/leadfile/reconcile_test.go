package leadfile

import (
	"errors"
	"strings"
	"testing"
)

func TestBuildUploadedSet(t *testing.T) {
	text := "phone_numbers\tlist_id\n" +
		"5551234567\t9265\n" +
		"(555) 123-4568\t9265\n" +
		"\t9265\n" + // empty cell skipped
		"5551234567\t9265\n" // duplicate collapses

	set := BuildUploadedSet(text, "phone_numbers")
	if len(set) != 2 {
		t.Fatalf("set size = %d, want 2: %v", len(set), set)
	}
	for _, phone := range []string{"5551234567", "5551234568"} {
		if _, ok := set[phone]; !ok {
			t.Errorf("set missing %q", phone)
		}
	}
}

func TestBuildUploadedSet_ColumnMissing(t *testing.T) {
	set := BuildUploadedSet("other\t1\nx\t2\n", "phone_numbers")
	if len(set) != 0 {
		t.Errorf("set = %v, want empty when column absent", set)
	}
}

const mainFixture = "name,phone,city\n" +
	"alice,5551234567,denver\n" +
	"bob,555-123-4568,boise\n" +
	"carol,(555)123-4569,provo\n" +
	"dave,1234567,reno\n" +
	"erin,5551234570,omaha"

func TestFilterUnuploaded(t *testing.T) {
	dialables := "phone_numbers\n5551234567\n5551234568\n"
	set := BuildUploadedSet(dialables, "phone_numbers")

	res, err := FilterUnuploaded(mainFixture, "phone", set)
	if err != nil {
		t.Fatalf("FilterUnuploaded() error = %v", err)
	}

	if res.Kept != 3 || res.Removed != 2 {
		t.Errorf("Kept/Removed = %d/%d, want 3/2", res.Kept, res.Removed)
	}

	lines := strings.Split(res.Text, "\n")
	if lines[0] != "name,phone,city" {
		t.Errorf("header not preserved: %q", lines[0])
	}
	if len(lines) != 4 {
		t.Fatalf("output lines = %d, want header + 3 rows", len(lines))
	}
	for _, want := range []string{"carol", "dave", "erin"} {
		if !strings.Contains(res.Text, want) {
			t.Errorf("output missing row for %s", want)
		}
	}
	if strings.Contains(res.Text, "alice") || strings.Contains(res.Text, "bob") {
		t.Error("uploaded rows should be removed")
	}
}

func TestFilterUnuploaded_Idempotent(t *testing.T) {
	set := map[string]struct{}{"5551234567": {}}
	first, err := FilterUnuploaded(mainFixture, "phone", set)
	if err != nil {
		t.Fatalf("first pass: %v", err)
	}
	second, err := FilterUnuploaded(mainFixture, "phone", set)
	if err != nil {
		t.Fatalf("second pass: %v", err)
	}
	if first != second {
		t.Errorf("filter is not idempotent: %+v vs %+v", first, second)
	}
}

func TestFilterUnuploaded_CountsPartitionDataRows(t *testing.T) {
	set := BuildUploadedSet("phone_numbers\n5551234567\n5551234570\n", "phone_numbers")
	res, err := FilterUnuploaded(mainFixture, "phone", set)
	if err != nil {
		t.Fatalf("FilterUnuploaded() error = %v", err)
	}
	totalDataRows := len(SplitRows(mainFixture)) - 1
	if res.Kept+res.Removed != totalDataRows {
		t.Errorf("Kept+Removed = %d, want %d", res.Kept+res.Removed, totalDataRows)
	}
}

func TestFilterUnuploaded_ColumnNotFound(t *testing.T) {
	_, err := FilterUnuploaded(mainFixture, "mobile", nil)
	if !errors.Is(err, ErrColumnNotFound) {
		t.Errorf("err = %v, want ErrColumnNotFound", err)
	}
}

func TestFilterUnuploaded_Semicolon(t *testing.T) {
	text := "name;phone\nalice;5551230001\nbob;5551230002"
	set := map[string]struct{}{"5551230002": {}}

	res, err := FilterUnuploaded(text, "phone", set)
	if err != nil {
		t.Fatalf("FilterUnuploaded() error = %v", err)
	}
	if res.Kept != 1 || res.Removed != 1 {
		t.Errorf("Kept/Removed = %d/%d, want 1/1", res.Kept, res.Removed)
	}
	if !strings.HasPrefix(res.Text, "name;phone\n") {
		t.Errorf("semicolon header not preserved: %q", res.Text)
	}
}

func TestFilterUnuploaded_CountryCodeNotReconciled(t *testing.T) {
	// "+1 555..." strips to an 11-digit value distinct from the 10-digit form;
	// the row survives even though the same contact was dialed.
	text := "name,phone\nalice,+1 (555) 123-4567"
	set := map[string]struct{}{"5551234567": {}}

	res, err := FilterUnuploaded(text, "phone", set)
	if err != nil {
		t.Fatalf("FilterUnuploaded() error = %v", err)
	}
	if res.Kept != 1 || res.Removed != 0 {
		t.Errorf("Kept/Removed = %d/%d, want country-code form kept", res.Kept, res.Removed)
	}
}
