package sanitizer

import (
	"strings"
	"unicode"
)

// TrimAndNormalize trims s and collapses every run of whitespace, including
// tabs and newlines, into one space.
func TrimAndNormalize(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func NormalizeName(name string) string {
	return TrimAndNormalize(name)
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// NormalizeText trims free text but keeps its line breaks.
func NormalizeText(text string) string {
	lines := strings.Split(strings.TrimSpace(text), "\n")
	for i, line := range lines {
		lines[i] = TrimAndNormalize(line)
	}
	return strings.Join(lines, "\n")
}

func NormalizeTag(tag string) string {
	return strings.ToLower(TrimAndNormalize(tag))
}

// NormalizePageSlug turns "Tour Packages" or "/tour-packages/" into "tour-packages".
func NormalizePageSlug(page string) string {
	page = strings.Trim(NormalizeTag(page), "/ ")
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) || r == '_' {
			return '-'
		}
		return r
	}, page)
}
