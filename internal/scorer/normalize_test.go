package scorer

import "testing"

func TestNormalizeStripsTagsAndCase(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"parenthesized region tag", "Super Metroid (USA)", "super metroid"},
		{"bracketed hack tag", "Chrono Trigger [T-En by Someone]", "chrono trigger"},
		{"multiple tag groups", "Final Fantasy VI (Europe) [!]", "final fantasy vi"},
		{"leading The is dropped", "The Legend of Zelda", "legend of zelda"},
		{"punctuation stripped", "Kirby's Dream Land!", "kirbys dream land"},
		{"diacritics folded", "Pokémon Crystal", "pokemon crystal"},
		{"extra whitespace collapsed", "Mega   Man   2", "mega man 2"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := Normalize(c.in); got != c.want {
				t.Fatalf("Normalize(%q) = %q, want %q", c.in, got, c.want)
			}
		})
	}
}

func TestNormalizeFilenameStripsExtension(t *testing.T) {
	got := NormalizeFilename("Chrono Trigger (USA).sfc")
	want := "chrono trigger"
	if got != want {
		t.Fatalf("NormalizeFilename = %q, want %q", got, want)
	}
}

func TestNormalizeEmptyStringIsEmpty(t *testing.T) {
	if got := Normalize(""); got != "" {
		t.Fatalf("Normalize(\"\") = %q, want empty", got)
	}
}
