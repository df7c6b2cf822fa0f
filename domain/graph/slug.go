package graph

import (
	"regexp"
	"strings"
)

var (
	parentheticalRe = regexp.MustCompile(`\(.*?\)`)
	ordinalPrefixRe = regexp.MustCompile(`^\d+\.\s*`)
	nonSlugCharRe   = regexp.MustCompile(`[^a-z0-9\s-]`)
	slugSeparatorRe = regexp.MustCompile(`[\s-]+`)
	trailingPaliRe  = regexp.MustCompile(`\(([^)]+)\)\s*$`)
)

// Slugify turns a display name into a URL-friendly slug:
//
//	Slugify("Right Concentration (Samma Samadhi)") == "right-concentration"
//	Slugify("1. There is Suffering") == "there-is-suffering"
//
// Parenthetical Pali text and leading ordinal prefixes are stripped, the rest
// is lower-cased, reduced to alphanumerics and hyphens, and whitespace runs
// collapse to single hyphens. The function is idempotent, so differently
// punctuated spellings of one concept collapse to the same slug.
func Slugify(text string) string {
	text = parentheticalRe.ReplaceAllString(text, "")
	text = ordinalPrefixRe.ReplaceAllString(text, "")
	text = nonSlugCharRe.ReplaceAllString(strings.ToLower(strings.TrimSpace(text)), "")
	text = slugSeparatorRe.ReplaceAllString(text, "-")
	return strings.Trim(text, "-")
}

// ParseHeader extracts the English and Pali names from a column header of the
// form "Four Noble Truths\n(Cattari Ariya-saccani)".
func ParseHeader(header string) (name, pali string) {
	parts := strings.Split(strings.ReplaceAll(header, "\n", "|"), "|")
	name = strings.TrimSpace(parts[0])
	if len(parts) > 1 {
		pali = strings.Trim(strings.TrimSpace(parts[1]), "()")
	}
	return name, pali
}

// SplitPaliName splits "Right View (Samma Ditthi)" into the clean name and
// the Pali term. The Pali part is empty when no trailing parenthetical
// exists.
func SplitPaliName(name string) (clean, pali string) {
	if m := trailingPaliRe.FindStringSubmatchIndex(name); m != nil {
		return strings.TrimSpace(name[:m[0]]), name[m[2]:m[3]]
	}
	return strings.TrimSpace(name), ""
}

// StripOrdinalPrefix removes leading "1. " style prefixes from item names.
func StripOrdinalPrefix(text string) string {
	return strings.TrimSpace(ordinalPrefixRe.ReplaceAllString(text, ""))
}
