package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Right Concentration (Samma Samadhi)", "right-concentration"},
		{"1. There is Suffering", "there-is-suffering"},
		{"Five Hindrances", "five-hindrances"},
		{"  Loving-Kindness  ", "loving-kindness"},
		{"Ethics & Morality", "ethics-morality"},
		{"Noble   Eightfold    Path", "noble-eightfold-path"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Slugify(tt.in), "Slugify(%q)", tt.in)
	}
}

func TestSlugifyIdempotent(t *testing.T) {
	names := []string{
		"Right View (Samma Ditthi)",
		"2. Craving Causes Suffering",
		"FOUR NOBLE TRUTHS",
	}
	for _, name := range names {
		once := Slugify(name)
		assert.Equal(t, once, Slugify(once))
	}
}

func TestSlugifyCollapsesSpellings(t *testing.T) {
	// Differently punctuated spellings of one concept map to one slug.
	assert.Equal(t, Slugify("Right View (Samma Ditthi)"), Slugify("right view"))
	assert.Equal(t, Slugify("1. Right View"), Slugify("Right  View!"))
}

func TestParseHeader(t *testing.T) {
	name, pali := ParseHeader("Four Noble Truths\n(Cattari Ariya-saccani)")
	assert.Equal(t, "Four Noble Truths", name)
	assert.Equal(t, "Cattari Ariya-saccani", pali)

	name, pali = ParseHeader("Three Trainings")
	assert.Equal(t, "Three Trainings", name)
	assert.Empty(t, pali)
}

func TestSplitPaliName(t *testing.T) {
	clean, pali := SplitPaliName("Right View (Samma Ditthi)")
	assert.Equal(t, "Right View", clean)
	assert.Equal(t, "Samma Ditthi", pali)

	clean, pali = SplitPaliName("Equanimity")
	assert.Equal(t, "Equanimity", clean)
	assert.Empty(t, pali)
}

func TestStripOrdinalPrefix(t *testing.T) {
	assert.Equal(t, "There is Suffering", StripOrdinalPrefix("1. There is Suffering"))
	assert.Equal(t, "Right View", StripOrdinalPrefix("Right View"))
}
