package domain

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	spaceRe = regexp.MustCompile(`\s+`)

	// punctuationReplacer drops the characters that vary between sources
	// without changing identity: "J. Smith" and "J Smith" are one athlete.
	punctuationReplacer = strings.NewReplacer(".", "", ",", "", "'", "", "’", "", "`", "")

	// letterReplacer handles Latin letters that have no NFD decomposition.
	letterReplacer = strings.NewReplacer(
		"ß", "SS", "ẞ", "SS", "Ø", "O", "ø", "O", "Ł", "L", "ł", "L",
		"Æ", "AE", "æ", "AE", "Œ", "OE", "œ", "OE", "Đ", "D", "đ", "D", "ı", "I",
	)

	// Longest suffixes first so " III" is not left as " I" after " II".
	athleteSuffixes = []string{" JUNIOR", " SENIOR", " III", " II", " JR", " SR"}
)

func collapseSpaces(s string) string {
	return strings.TrimSpace(spaceRe.ReplaceAllString(s, " "))
}

// NormalizeAthleteName returns the deduplication key of an athlete name:
// upper case, punctuation and generational suffixes removed.
func NormalizeAthleteName(s string) string {
	key := collapseSpaces(punctuationReplacer.Replace(strings.ToUpper(s)))
	if key == "" {
		return UnknownName
	}
	for trimmed := true; trimmed; {
		trimmed = false
		for _, suffix := range athleteSuffixes {
			if strings.HasSuffix(key, suffix) {
				key = strings.TrimSpace(strings.TrimSuffix(key, suffix))
				trimmed = true
			}
		}
	}
	return key
}

// TitleCase returns the display form of a free-text name.
func TitleCase(s string) string {
	s = collapseSpaces(s)
	if s == "" {
		return Unknown
	}
	return cases.Title(language.Und).String(strings.ToLower(s))
}

// NormalizePlace returns the matching key of a city or country name:
// diacritics transliterated to ASCII, punctuation stripped, upper case.
func NormalizePlace(s string) string {
	key := collapseSpaces(punctuationReplacer.Replace(stripDiacritics(s)))
	if key == "" {
		return UnknownName
	}
	return strings.ToUpper(key)
}

// stripDiacritics removes combining marks, leaving the input unchanged if
// the transformation fails.
func stripDiacritics(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, letterReplacer.Replace(s))
	if err != nil {
		return s
	}
	return out
}

// StandardizeCity normalizes a city and applies the alias table.
func StandardizeCity(s string, aliases map[string]string) string {
	key := NormalizePlace(s)
	if canonical, ok := aliases[key]; ok {
		return canonical
	}
	return key
}

// cityMatchKey is the compact form used by weather matching: spaces,
// hyphens and dots removed so "SAINT-DENIS" meets "SAINT DENIS".
func cityMatchKey(s string) string {
	return strings.NewReplacer(" ", "", "-", "", ".", "").Replace(s)
}
