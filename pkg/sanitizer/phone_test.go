package sanitizer

import "testing"

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "already E.164", input: "+6281234567890", want: "+6281234567890"},
		{name: "local with leading zero", input: "081234567890", want: "+6281234567890"},
		{name: "local with dashes", input: "0812-3456-7890", want: "+6281234567890"},
		{name: "with spaces", input: "+62 812 3456 7890", want: "+6281234567890"},
		{name: "foreign number kept", input: "+1 (212) 555-1234", want: "+12125551234"},
		{name: "surrounding whitespace", input: "  081234567890  ", want: "+6281234567890"},
		{name: "empty", input: "", want: ""},
		{name: "only whitespace", input: "   ", want: ""},
		{name: "letters", input: "call me", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizePhone(tt.input); got != tt.want {
				t.Errorf("NormalizePhone(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizePhone_Idempotent(t *testing.T) {
	once := NormalizePhone("0812 3456 7890")
	if twice := NormalizePhone(once); twice != once {
		t.Errorf("expected idempotent result %q, got %q", once, twice)
	}
}
