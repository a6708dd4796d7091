package scorer

import (
	"path/filepath"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

var (
	parenGroup    = regexp.MustCompile(`\([^)]*\)`)
	bracketGroup  = regexp.MustCompile(`\[[^\]]*\]`)
	nonAlnumSpace = regexp.MustCompile(`[^a-z0-9\s]`)
	multiSpace    = regexp.MustCompile(`\s+`)
	lowerFolder   = cases.Lower(language.Und)
)

// NormalizeFilename strips a file extension, then normalizes the remaining
// stem the same way Normalize does.
func NormalizeFilename(filename string) string {
	ext := filepath.Ext(filename)
	stem := strings.TrimSuffix(filename, ext)
	return Normalize(stem)
}

// Normalize folds name to a comparable form: diacritics and case removed,
// parenthesized/bracketed ROM tags stripped, punctuation dropped, a leading
// "The" removed, and whitespace collapsed.
func Normalize(name string) string {
	folded := foldDiacritics(lowerFolder.String(name))
	folded = parenGroup.ReplaceAllString(folded, "")
	folded = bracketGroup.ReplaceAllString(folded, "")
	folded = nonAlnumSpace.ReplaceAllString(folded, "")
	folded = multiSpace.ReplaceAllString(folded, " ")
	folded = strings.TrimSpace(folded)
	folded = strings.TrimPrefix(folded, "the ")
	return strings.TrimSpace(folded)
}

// foldDiacritics decomposes name (NFD) and drops combining marks, so
// "Pokémon" and "Pokemon" normalize identically.
func foldDiacritics(name string) string {
	decomposed := norm.NFD.String(name)
	var b strings.Builder
	b.Grow(len(decomposed))
	for _, r := range decomposed {
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
