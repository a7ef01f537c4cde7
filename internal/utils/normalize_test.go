package utils

import (
	"reflect"
	"testing"
)

func TestNormalizeNameLower(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"  Jane   Doe ", "jane doe"},
		{"JOSÉ Silva", "josé silva"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := NormalizeNameLower(tt.in); got != tt.want {
			t.Errorf("NormalizeNameLower(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSlugify(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Jane Doe", "jane-doe"},
		{"José  Silva", "jose-silva"},
		{"O'Brien, Pat", "obrien-pat"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := Slugify(tt.in); got != tt.want {
			t.Errorf("Slugify(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestKeywordsFromName(t *testing.T) {
	got := KeywordsFromName("jane doe", "jane-doe")
	want := []string{"jane", "doe", "jane doe", "jane-doe"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("KeywordsFromName() = %v, want %v", got, want)
	}
	if got := KeywordsFromName("", ""); got != nil {
		t.Fatalf("KeywordsFromName(empty) = %v, want nil", got)
	}
}

func TestTrimMax(t *testing.T) {
	if got := TrimMax("  hello  ", 10); got != "hello" {
		t.Errorf("TrimMax() = %q, want hello", got)
	}
	if got := TrimMax("abcdef", 3); got != "abc" {
		t.Errorf("TrimMax() = %q, want abc", got)
	}
}
