package scanner

import (
	"regexp"
	"strings"
)

// regionIndicators maps a canonical lowercase region code to the filename
// tokens (No-Intro/TOSEC style) that identify it. Checked case-insensitively.
var regionIndicators = map[string][]string{
	"us":  {"usa", "us", "u"},
	"eu":  {"europe", "eur", "eu", "e"},
	"jp":  {"japan", "jpn", "jp", "j"},
	"wor": {"world", "wor", "w"},
	"fr":  {"france", "fr", "f"},
	"de":  {"germany", "de", "g"},
	"es":  {"spain", "es", "s"},
	"it":  {"italy", "it", "i"},
	"nl":  {"netherlands", "nl"},
	"pt":  {"portugal", "pt"},
	"br":  {"brazil", "br"},
	"au":  {"australia", "au"},
	"kr":  {"korea", "kr", "k"},
	"cn":  {"china", "cn"},
	"tw":  {"taiwan", "tw"},
}

// languageIndicators maps a canonical lowercase language code to its
// recognized filename tokens.
var languageIndicators = map[string][]string{
	"en": {"english", "en"},
	"fr": {"french", "fr"},
	"de": {"german", "de"},
	"es": {"spanish", "es"},
	"it": {"italian", "it"},
	"nl": {"dutch", "nl"},
	"pt": {"portuguese", "pt"},
	"ja": {"japanese", "ja"},
	"ko": {"korean", "ko"},
	"zh": {"chinese", "zh"},
	"sv": {"swedish", "sv"},
	"no": {"norwegian", "no"},
	"da": {"danish", "da"},
	"fi": {"finnish", "fi"},
	"pl": {"polish", "pl"},
	"ru": {"russian", "ru"},
}

var indicatorToRegion = invertIndicators(regionIndicators)
var indicatorToLanguage = invertIndicators(languageIndicators)

func invertIndicators(codes map[string][]string) map[string]string {
	out := make(map[string]string)
	for code, indicators := range codes {
		for _, indicator := range indicators {
			out[indicator] = code
		}
	}
	return out
}

var parenGroup = regexp.MustCompile(`\(([^)]+)\)`)

// parseRegionsAndLanguages extracts region and language tags from
// parenthesized, comma-separated groups in a display basename. Regions and
// languages are returned in source order with duplicates removed; a token
// that matches neither closed set is ignored.
func parseRegionsAndLanguages(basename string) (regions, languages []string) {
	seenRegion := make(map[string]bool)
	seenLanguage := make(map[string]bool)

	for _, group := range parenGroup.FindAllStringSubmatch(basename, -1) {
		for _, part := range strings.Split(group[1], ",") {
			token := strings.ToLower(strings.TrimSpace(part))
			if token == "" {
				continue
			}
			if region, ok := indicatorToRegion[token]; ok && !seenRegion[region] {
				regions = append(regions, region)
				seenRegion[region] = true
				continue
			}
			if language, ok := indicatorToLanguage[token]; ok && !seenLanguage[language] {
				languages = append(languages, language)
				seenLanguage[language] = true
			}
		}
	}
	return regions, languages
}
