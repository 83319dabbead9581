package leadfile

import (
	"reflect"
	"testing"
)

func TestDetectDelimiter(t *testing.T) {
	tests := []struct {
		name string
		text string
		want Delimiter
	}{
		{"comma header", "first,last,phone\na,b,c", Comma},
		{"semicolon beats comma", "a;b,c;d\n1,2", Semicolon},
		{"tab wins ties", "a\tb\tc,d,e;f;g", Tab},
		{"first line only", "a\tb\tc\n1,2,3,4,5,6,7,8", Tab},
		{"single column", "header\nvalue", Comma},
		{"semicolon tie with comma", "a;b,c", Semicolon},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetectDelimiter(tt.text); got != tt.want {
				t.Errorf("DetectDelimiter(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestSplitRows(t *testing.T) {
	tests := []struct {
		name string
		text string
		want int
	}{
		{"trailing newline dropped", "a,b\n1,2\n", 2},
		{"multiple trailing newlines", "a,b\n1,2\n\n\n", 2},
		{"leading whitespace", "\n\na,b\n1,2", 2},
		{"empty", "", 0},
		{"whitespace only", "  \n  ", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SplitRows(tt.text); len(got) != tt.want {
				t.Errorf("SplitRows(%q) = %d rows, want %d", tt.text, len(got), tt.want)
			}
		})
	}
}

func TestSplitRow_NoQuoteHandling(t *testing.T) {
	// Quoted fields are split naively; this is a documented limitation.
	got := SplitRow(`a,"b,c",d`, Comma)
	want := []string{"a", `"b`, `c"`, "d"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("SplitRow() = %v, want %v", got, want)
	}
}

func TestHeaderIndex(t *testing.T) {
	idx := HeaderIndex(" first , phone ,last", Comma)
	if idx["phone"] != 1 {
		t.Errorf("phone index = %d, want 1", idx["phone"])
	}
	if idx["first"] != 0 || idx["last"] != 2 {
		t.Errorf("unexpected index map: %v", idx)
	}
}

func TestHeaderIndex_DuplicateKeepsFirst(t *testing.T) {
	idx := HeaderIndex("phone,name,phone", Comma)
	if idx["phone"] != 0 {
		t.Errorf("duplicate header should keep first position, got %d", idx["phone"])
	}
}

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"5551234567", "5551234567"},
		{"555-123-4567", "5551234567"},
		{"(555) 123-4567", "5551234567"},
		{"+1 (555) 123-4567", "15551234567"}, // leading 1 kept
		{"ext. 12", "12"},
		{"", ""},
		{"n/a", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := NormalizePhone(tt.in); got != tt.want {
				t.Errorf("NormalizePhone(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
