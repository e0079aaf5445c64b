package domain

import "testing"

func TestNormalizeText(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "trim spaces", input: "  chicken  ", want: "chicken"},
		{name: "lowercase", input: "Beef Bourguignon", want: "beef bourguignon"},
		{name: "compress multiple spaces", input: "chicken   rice", want: "chicken rice"},
		{name: "diacritics preserved", input: "Crème Brûlée", want: "crème brûlée"},
		{name: "hyphens preserved", input: "stir-fry", want: "stir-fry"},
		{name: "apostrophes preserved", input: "shepherd's pie", want: "shepherd's pie"},
		{name: "empty string", input: "", want: ""},
		{name: "only spaces", input: "   ", want: ""},
		{name: "tabs between words", input: "rice\t\tbeans", want: "rice beans"},
		{name: "tabs and spaces", input: "\t garlic \t", want: "garlic"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := NormalizeText(tt.input); got != tt.want {
				t.Errorf("NormalizeText(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestSlugify(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  string
	}{
		{"Spaghetti alla Vongole", "spaghetti-alla-vongole"},
		{"  Shepherd's Pie!  ", "shepherd-s-pie"},
		{"Chicken & Rice (15 min)", "chicken-rice-15-min"},
		{"Crème brûlée", "cr-me-br-l-e"},
		{"---", ""},
	}
	for _, tt := range tests {
		if got := Slugify(tt.input); got != tt.want {
			t.Errorf("Slugify(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
