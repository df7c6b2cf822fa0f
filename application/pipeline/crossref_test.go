package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"dhammakb/domain/graph"
)

func crossrefFixture() *DraftSet {
	set := NewDraftSet()
	set.AddList(&graph.DraftList{Slug: "brahma-viharas", Name: "Four Brahma Viharas"})
	set.AddList(&graph.DraftList{Slug: "factors-of-awakening", Name: "Seven Factors of Awakening"})

	set.AddDhamma(&graph.DraftDhamma{
		Slug: "equanimity", Name: "Equanimity", PaliName: "Upekkha",
		ParentListSlug: "brahma-viharas",
	})
	set.AddDhamma(&graph.DraftDhamma{
		Slug: "equanimity-factor", Name: "Equanimity (factor)", PaliName: "Upekkha",
		ParentListSlug: "factors-of-awakening",
	})
	set.AddDhamma(&graph.DraftDhamma{
		Slug: "loving-kindness", Name: "Loving-kindness", PaliName: "Metta",
		ParentListSlug: "brahma-viharas",
	})
	return set
}

func TestDetectCrossReferencesSharedPali(t *testing.T) {
	set := crossrefFixture()
	detectCrossReferences(set, zap.NewNop())

	a := set.Dhamma("equanimity")
	b := set.Dhamma("equanimity-factor")
	require.Len(t, a.CrossReferences, 1)
	require.Len(t, b.CrossReferences, 1)

	assert.Equal(t, "equanimity-factor", a.CrossReferences[0].RefSlug)
	assert.Equal(t, graph.KindDhamma, a.CrossReferences[0].RefKind)
	assert.Contains(t, a.CrossReferences[0].Note, "upekkha")
	assert.Contains(t, a.CrossReferences[0].Note, "factors-of-awakening")

	// Symmetric edge.
	assert.Equal(t, "equanimity", b.CrossReferences[0].RefSlug)
	assert.Contains(t, b.CrossReferences[0].Note, "brahma-viharas")

	// No shared term, no edges.
	assert.Empty(t, set.Dhamma("loving-kindness").CrossReferences)
}

func TestDetectCrossReferencesSameListSkipped(t *testing.T) {
	set := NewDraftSet()
	set.AddList(&graph.DraftList{Slug: "hindrances", Name: "Five Hindrances"})
	set.AddDhamma(&graph.DraftDhamma{
		Slug: "craving", Name: "Craving", PaliName: "Tanha",
		ParentListSlug: "hindrances",
	})
	set.AddDhamma(&graph.DraftDhamma{
		Slug: "greed", Name: "Greed", PaliName: "Tanha",
		ParentListSlug: "hindrances",
	})

	detectCrossReferences(set, zap.NewNop())

	assert.Empty(t, set.Dhamma("craving").CrossReferences)
	assert.Empty(t, set.Dhamma("greed").CrossReferences)
}

func TestDetectCrossReferencesCompoundPaliTerms(t *testing.T) {
	set := NewDraftSet()
	set.AddList(&graph.DraftList{Slug: "roots", Name: "Three Unwholesome Roots"})
	set.AddList(&graph.DraftList{Slug: "hindrances", Name: "Five Hindrances"})
	set.AddDhamma(&graph.DraftDhamma{
		Slug: "greed", Name: "Greed", PaliName: "Lobha (Raga/Tanha)",
		ParentListSlug: "roots",
	})
	set.AddDhamma(&graph.DraftDhamma{
		Slug: "craving", Name: "Craving", PaliName: "Tanha",
		ParentListSlug: "hindrances",
	})

	detectCrossReferences(set, zap.NewNop())

	greed := set.Dhamma("greed")
	require.Len(t, greed.CrossReferences, 1)
	assert.Equal(t, "craving", greed.CrossReferences[0].RefSlug)
	assert.Contains(t, greed.CrossReferences[0].Note, "tanha")
}

func TestDetectCrossReferencesIgnoresShortFragments(t *testing.T) {
	set := NewDraftSet()
	set.AddList(&graph.DraftList{Slug: "a", Name: "A"})
	set.AddList(&graph.DraftList{Slug: "b", Name: "B"})
	set.AddDhamma(&graph.DraftDhamma{
		Slug: "one", Name: "One", PaliName: "Ti va",
		ParentListSlug: "a",
	})
	set.AddDhamma(&graph.DraftDhamma{
		Slug: "two", Name: "Two", PaliName: "Ti va",
		ParentListSlug: "b",
	})

	detectCrossReferences(set, zap.NewNop())

	assert.Empty(t, set.Dhamma("one").CrossReferences)
	assert.Empty(t, set.Dhamma("two").CrossReferences)
}
