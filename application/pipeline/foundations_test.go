package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestParseFoundationsSheet(t *testing.T) {
	rows := [][]string{
		{"List", "Item", "Pali", "Notes"},
		{"Three Jewels (Tiratana)", "Buddha", "", "The awakened one"},
		{"Three Jewels (Tiratana)", "Dhamma (Dhamma)", "", ""},
		{"Three Marks of Existence", "Impermanence", "Anicca", ""},
		{"", "Orphan Item", "", ""},
		{"Lonely List", "", "", ""},
	}

	set := parseFoundationsSheet(rows, zap.NewNop())

	jewels := set.List("three-jewels")
	require.NotNil(t, jewels)
	assert.Equal(t, "Three Jewels", jewels.Name)
	assert.Equal(t, "Tiratana", jewels.PaliName)
	assert.Equal(t, []string{"buddha", "dhamma"}, jewels.Children)

	// Pali from the trailing parenthetical wins; the column is the fallback.
	dhamma := set.Dhamma("dhamma")
	require.NotNil(t, dhamma)
	assert.Equal(t, "Dhamma", dhamma.PaliName)

	impermanence := set.Dhamma("impermanence")
	require.NotNil(t, impermanence)
	assert.Equal(t, "Anicca", impermanence.PaliName)
	assert.Equal(t, "three-marks-of-existence", impermanence.ParentListSlug)

	// Incomplete rows are skipped entirely.
	assert.Nil(t, set.Dhamma("orphan-item"))
	assert.Nil(t, set.List("lonely-list"))
	assert.Len(t, set.Lists(), 2)
}
