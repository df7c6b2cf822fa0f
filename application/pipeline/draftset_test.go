package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dhammakb/domain/graph"
)

func TestDraftSetFirstOccurrenceWins(t *testing.T) {
	set := NewDraftSet()

	first := set.AddDhamma(&graph.DraftDhamma{
		Slug: "mindfulness", Name: "Mindfulness", ParentListSlug: "five-faculties",
	})
	second := set.AddDhamma(&graph.DraftDhamma{
		Slug: "mindfulness", Name: "Mindfulness (Sati)", PaliName: "Sati",
		Notes: "Present-moment awareness", ParentListSlug: "factors-of-awakening",
	})

	// Same instance back, identity kept, metadata backfilled.
	assert.Same(t, first, second)
	assert.Equal(t, "Mindfulness", first.Name)
	assert.Equal(t, "five-faculties", first.ParentListSlug)
	assert.Equal(t, "Sati", first.PaliName)
	assert.Equal(t, "Present-moment awareness", first.Notes)
}

func TestDraftSetOrderIsStable(t *testing.T) {
	set := NewDraftSet()
	for _, slug := range []string{"c", "a", "b"} {
		set.AddList(&graph.DraftList{Slug: slug, Name: slug})
	}
	// Re-adding must not move anything.
	set.AddList(&graph.DraftList{Slug: "a", Name: "a"})

	var got []string
	for _, l := range set.Lists() {
		got = append(got, l.Slug)
	}
	assert.Equal(t, []string{"c", "a", "b"}, got)
}

func TestMergeUnionsListChildren(t *testing.T) {
	nested := NewDraftSet()
	truths := nested.AddList(&graph.DraftList{Slug: "four-noble-truths", Name: "Four Noble Truths"})
	truths.AddChild("suffering")
	nested.AddDhamma(&graph.DraftDhamma{Slug: "suffering", Name: "Suffering", ParentListSlug: "four-noble-truths"})

	foundations := NewDraftSet()
	dup := foundations.AddList(&graph.DraftList{
		Slug: "four-noble-truths", Name: "Four Noble Truths", PaliName: "Cattāri Ariyasaccāni",
	})
	dup.AddChild("suffering")
	dup.AddChild("origin-of-suffering")
	foundations.AddDhamma(&graph.DraftDhamma{
		Slug: "origin-of-suffering", Name: "Origin of Suffering", ParentListSlug: "four-noble-truths",
	})

	nested.Merge(foundations)

	merged := nested.List("four-noble-truths")
	require.NotNil(t, merged)
	assert.Equal(t, []string{"suffering", "origin-of-suffering"}, merged.Children)
	assert.Equal(t, "Cattāri Ariyasaccāni", merged.PaliName)
	assert.Len(t, nested.Lists(), 1)
	assert.Len(t, nested.Dhammas(), 2)
}

func TestAssignPositions(t *testing.T) {
	set := NewDraftSet()
	list := set.AddList(&graph.DraftList{Slug: "jewels", Name: "Three Jewels"})
	for _, slug := range []string{"buddha", "dhamma", "sangha"} {
		set.AddDhamma(&graph.DraftDhamma{Slug: slug, Name: slug, ParentListSlug: "jewels"})
		list.AddChild(slug)
	}

	assignPositions(set)

	assert.Equal(t, 3, list.ItemCount)
	assert.Equal(t, 1, set.Dhamma("buddha").PositionInList)
	assert.Equal(t, 2, set.Dhamma("dhamma").PositionInList)
	assert.Equal(t, 3, set.Dhamma("sangha").PositionInList)
}
