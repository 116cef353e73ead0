package sanitizer

import (
	"reflect"
	"testing"
)

func TestNormalizeName(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "trim spaces", input: "  Lab Komputer 2  ", want: "Lab Komputer 2"},
		{name: "inner whitespace runs", input: "Gedung\t\n   Rektorat", want: "Gedung Rektorat"},
		{name: "empty", input: "", want: ""},
		{name: "only whitespace", input: " \t\n ", want: ""},
		{name: "unicode kept", input: " Ruang Serbaguna™ ", want: "Ruang Serbaguna™"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeName(tt.input); got != tt.want {
				t.Errorf("NormalizeName(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizeEmail(t *testing.T) {
	if got := NormalizeEmail("  Sari@Kampus.AC.ID "); got != "sari@kampus.ac.id" {
		t.Errorf("expected sari@kampus.ac.id, got %q", got)
	}
}

func TestNormalizeCode(t *testing.T) {
	if got := NormalizeCode(" lab 2a "); got != "LAB2A" {
		t.Errorf("expected LAB2A, got %q", got)
	}
}

func TestNormalizeSearch(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{input: "Lab  2", want: []string{"lab", "2"}},
		{input: "   ", want: []string{}},
		{input: "PROYEKTOR", want: []string{"proyektor"}},
	}
	for _, tt := range tests {
		got := NormalizeSearch(tt.input)
		if len(got) == 0 && len(tt.want) == 0 {
			continue
		}
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("NormalizeSearch(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestNormalizeURL(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{input: " https://RES.cloudinary.com/demo/surat.pdf ", want: "https://res.cloudinary.com/demo/surat.pdf"},
		{input: "HTTP://cdn.example/a.png", want: "http://cdn.example/a.png"},
		{input: "javascript:alert(1)", want: ""},
		{input: "/relative/path", want: ""},
		{input: "", want: ""},
	}
	for _, tt := range tests {
		if got := NormalizeURL(tt.input); got != tt.want {
			t.Errorf("NormalizeURL(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestNonNegative(t *testing.T) {
	if got := NonNegative(int64(-5000)); got != 0 {
		t.Errorf("expected 0, got %d", got)
	}
	if got := NonNegative(3); got != 3 {
		t.Errorf("expected 3, got %d", got)
	}
}
