package sanitizer

import (
	"reflect"
	"testing"
)

func TestNormalizeIDs(t *testing.T) {
	tests := []struct {
		name  string
		input []string
		want  []string
	}{
		{name: "dedupe and trim", input: []string{" a1", "a1 ", "b2"}, want: []string{"a1", "b2"}},
		{name: "drop blanks", input: []string{"", "  ", "c3"}, want: []string{"c3"}},
		{name: "nil", input: nil, want: []string{}},
		{name: "order kept", input: []string{"z", "a", "m"}, want: []string{"z", "a", "m"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeIDs(tt.input); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("NormalizeIDs(%v) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}
