package validation

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"dhammakb/domain/graph"
	"dhammakb/infrastructure/persistence/memory"
)

// seedStore inserts one list with two dhammas and resolves all references
// consistently.
func seedStore(t *testing.T) (*memory.Store, map[string]string, map[string]string) {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()

	require.NoError(t, store.InsertLists(ctx, []*graph.DraftList{
		{Slug: "three-jewels", Name: "Three Jewels", ItemCount: 2},
	}))
	require.NoError(t, store.InsertDhammas(ctx, []*graph.DraftDhamma{
		{Slug: "buddha", Name: "Buddha", PositionInList: 1},
		{Slug: "sangha", Name: "Sangha", PositionInList: 2},
	}))

	listIndex, err := store.ListSlugIndex(ctx)
	require.NoError(t, err)
	dhammaIndex, err := store.DhammaSlugIndex(ctx)
	require.NoError(t, err)

	listID := listIndex["three-jewels"]
	require.NoError(t, store.ResolveList(ctx, listID,
		[]string{dhammaIndex["buddha"], dhammaIndex["sangha"]}, nil))
	require.NoError(t, store.ResolveDhamma(ctx, dhammaIndex["buddha"], listID, nil, nil, nil))
	require.NoError(t, store.ResolveDhamma(ctx, dhammaIndex["sangha"], listID, nil, nil, nil))

	return store, listIndex, dhammaIndex
}

func checkByName(report *Report, name string) *CheckResult {
	for i := range report.Checks {
		if report.Checks[i].Name == name {
			return &report.Checks[i]
		}
	}
	return nil
}

func TestValidatorPassesOnConsistentGraph(t *testing.T) {
	store, _, _ := seedStore(t)
	v := New(store, zap.NewNop())

	report, err := v.Run(context.Background())
	require.NoError(t, err)

	assert.True(t, report.Passed)
	for _, name := range []string{
		"graph_populated", "children_refs_valid", "parents_resolve",
		"parent_child_bidirectional", "edge_targets_exist",
		"containment_not_zoom", "no_zoom_cycles", "item_counts_accurate",
		"slugs_unique",
	} {
		c := checkByName(report, name)
		require.NotNil(t, c, name)
		assert.True(t, c.Passed, name)
	}
}

func TestValidatorEssayCoverageIsInformational(t *testing.T) {
	store, _, _ := seedStore(t)
	v := New(store, zap.NewNop())

	report, err := v.Run(context.Background())
	require.NoError(t, err)

	coverage := checkByName(report, "essay_coverage")
	require.NotNil(t, coverage)
	assert.False(t, coverage.Passed)
	// Missing essays never fail the overall report.
	assert.True(t, report.Passed)
}

func TestValidatorEmptyGraphFails(t *testing.T) {
	store := memory.NewStore()
	v := New(store, zap.NewNop())

	report, err := v.Run(context.Background())
	require.NoError(t, err)

	assert.False(t, report.Passed)
	populated := checkByName(report, "graph_populated")
	require.NotNil(t, populated)
	assert.False(t, populated.Passed)
}

func TestValidatorDetectsBrokenChildReference(t *testing.T) {
	ctx := context.Background()
	store, listIndex, dhammaIndex := seedStore(t)
	require.NoError(t, store.ResolveList(ctx, listIndex["three-jewels"],
		[]string{dhammaIndex["buddha"], "not-a-real-id"}, nil))

	report, err := New(store, zap.NewNop()).Run(ctx)
	require.NoError(t, err)

	assert.False(t, report.Passed)
	assert.False(t, checkByName(report, "children_refs_valid").Passed)
}

func TestValidatorDetectsItemCountMismatch(t *testing.T) {
	ctx := context.Background()
	store, listIndex, dhammaIndex := seedStore(t)
	// Declared count stays 2 but only one child remains wired.
	require.NoError(t, store.ResolveList(ctx, listIndex["three-jewels"],
		[]string{dhammaIndex["buddha"]}, nil))
	require.NoError(t, store.ResolveDhamma(ctx, dhammaIndex["sangha"],
		listIndex["three-jewels"], nil, nil, nil))

	report, err := New(store, zap.NewNop()).Run(ctx)
	require.NoError(t, err)

	assert.False(t, report.Passed)
	assert.False(t, checkByName(report, "item_counts_accurate").Passed)
	// Sangha is no longer listed among the children either.
	assert.False(t, checkByName(report, "parent_child_bidirectional").Passed)
}

func TestValidatorDetectsContainmentDuplicatedAsZoom(t *testing.T) {
	ctx := context.Background()
	store, listIndex, dhammaIndex := seedStore(t)
	require.NoError(t, store.ResolveDhamma(ctx, dhammaIndex["buddha"],
		listIndex["three-jewels"],
		[]graph.Reference{{RefID: listIndex["three-jewels"], RefKind: graph.KindList}},
		nil, nil))

	report, err := New(store, zap.NewNop()).Run(ctx)
	require.NoError(t, err)

	assert.False(t, report.Passed)
	assert.False(t, checkByName(report, "containment_not_zoom").Passed)
}

func TestValidatorDetectsZoomCycle(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()

	// A zooms into list L, whose child B zooms into list M, whose child is A
	// again: a cycle through two zoom hops.
	require.NoError(t, store.InsertLists(ctx, []*graph.DraftList{
		{Slug: "l", Name: "L", ItemCount: 1},
		{Slug: "m", Name: "M", ItemCount: 1},
	}))
	require.NoError(t, store.InsertDhammas(ctx, []*graph.DraftDhamma{
		{Slug: "a", Name: "A", PositionInList: 1},
		{Slug: "b", Name: "B", PositionInList: 1},
	}))
	listIndex, err := store.ListSlugIndex(ctx)
	require.NoError(t, err)
	dhammaIndex, err := store.DhammaSlugIndex(ctx)
	require.NoError(t, err)

	require.NoError(t, store.ResolveList(ctx, listIndex["l"], []string{dhammaIndex["b"]}, nil))
	require.NoError(t, store.ResolveList(ctx, listIndex["m"], []string{dhammaIndex["a"]}, nil))
	require.NoError(t, store.ResolveDhamma(ctx, dhammaIndex["a"], listIndex["m"],
		[]graph.Reference{{RefID: listIndex["l"], RefKind: graph.KindList}}, nil, nil))
	require.NoError(t, store.ResolveDhamma(ctx, dhammaIndex["b"], listIndex["l"],
		[]graph.Reference{{RefID: listIndex["m"], RefKind: graph.KindList}}, nil, nil))

	report, err := New(store, zap.NewNop()).Run(ctx)
	require.NoError(t, err)

	assert.False(t, report.Passed)
	assert.False(t, checkByName(report, "no_zoom_cycles").Passed)
}

func TestValidatorSharedNodesOnDifferentPathsAreNotCycles(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()

	// Two dhammas zoom into the same list; the shared target repeats across
	// paths but never within one.
	require.NoError(t, store.InsertLists(ctx, []*graph.DraftList{
		{Slug: "parent", Name: "Parent", ItemCount: 2},
		{Slug: "shared", Name: "Shared", ItemCount: 1},
	}))
	require.NoError(t, store.InsertDhammas(ctx, []*graph.DraftDhamma{
		{Slug: "a", Name: "A", PositionInList: 1},
		{Slug: "b", Name: "B", PositionInList: 2},
		{Slug: "leaf", Name: "Leaf", PositionInList: 1},
	}))
	listIndex, err := store.ListSlugIndex(ctx)
	require.NoError(t, err)
	dhammaIndex, err := store.DhammaSlugIndex(ctx)
	require.NoError(t, err)

	sharedRef := []graph.Reference{{RefID: listIndex["shared"], RefKind: graph.KindList}}
	require.NoError(t, store.ResolveList(ctx, listIndex["parent"],
		[]string{dhammaIndex["a"], dhammaIndex["b"]}, nil))
	require.NoError(t, store.ResolveList(ctx, listIndex["shared"], []string{dhammaIndex["leaf"]}, nil))
	require.NoError(t, store.ResolveDhamma(ctx, dhammaIndex["a"], listIndex["parent"], sharedRef, nil, nil))
	require.NoError(t, store.ResolveDhamma(ctx, dhammaIndex["b"], listIndex["parent"], sharedRef, nil, nil))
	require.NoError(t, store.ResolveDhamma(ctx, dhammaIndex["leaf"], listIndex["shared"], nil, nil, nil))

	report, err := New(store, zap.NewNop()).Run(ctx)
	require.NoError(t, err)

	assert.True(t, checkByName(report, "no_zoom_cycles").Passed)
}
