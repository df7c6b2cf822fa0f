package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatchSublist(t *testing.T) {
	tests := []struct {
		name     string
		notes    string
		wantName string
		wantPali string
		wantOK   bool
	}{
		{
			name:     "pali parenthetical convention",
			notes:    "Five Aggregates (Pañca-khandha) make up what we call a person",
			wantName: "Five Aggregates",
			wantPali: "Pañca-khandha",
			wantOK:   true,
		},
		{
			name:     "dash description convention",
			notes:    "Four Stages of Enlightenment — breaks down the path to awakening",
			wantName: "Four Stages of Enlightenment",
			wantOK:   true,
		},
		{
			name:     "hyphen variant of dash convention",
			notes:    "Ten Fetters - the chains binding beings to samsara",
			wantName: "Ten Fetters",
			wantOK:   true,
		},
		{
			name:     "thirty-seven with hyphen",
			notes:    "Thirty-seven Aids to Awakening (Bodhipakkhiyā dhammā) grouped sets",
			wantName: "Thirty-seven Aids to Awakening",
			wantPali: "Bodhipakkhiyā dhammā",
			wantOK:   true,
		},
		{
			name:   "ordinary prose never opens a sub-list",
			notes:  "The cessation of craving brings the end of suffering",
			wantOK: false,
		},
		{
			name:   "numeral word mid-sentence does not match",
			notes:  "These are the Four Noble Truths in brief",
			wantOK: false,
		},
		{
			name:   "empty notes",
			notes:  "",
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			name, pali, ok := matchSublist(tt.notes)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.wantName, name)
				assert.Equal(t, tt.wantPali, pali)
			}
		})
	}
}
