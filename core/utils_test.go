package core

import "testing"

func TestCleanString(t *testing.T) {
	tests := []struct {
		name string
		s    string
		want string
	}{
		{name: "surrounding whitespace", s: "  Ana Reyes\t", want: "Ana Reyes"},
		{name: "inner whitespace kept", s: "Grade 3 - Sampaguita", want: "Grade 3 - Sampaguita"},
		{name: "blank collapses to empty", s: " \n ", want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CleanString(tt.s); got != tt.want {
				t.Errorf("CleanString() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCleanStrings(t *testing.T) {
	first, last, lrn := " Ana ", "Reyes\n", "  123456789012"
	CleanStrings(&first, &last, &lrn)
	for i, got := range []string{first, last, lrn} {
		want := []string{"Ana", "Reyes", "123456789012"}[i]
		if got != want {
			t.Errorf("field %d = %q, want %q", i, got, want)
		}
	}
}
