package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"dhammakb/domain/graph"
)

func TestDetectColumnDownstream(t *testing.T) {
	p, err := parseNestedSheet(nestedFixture(), zap.NewNop())
	require.NoError(t, err)

	p.detectColumnDownstream(zap.NewNop())

	// Path to End Suffering co-occurs with Noble Eightfold Path items, so it
	// zooms into that list.
	pathItem := p.set.Dhamma("path-to-end-suffering")
	require.NotNil(t, pathItem)
	assert.True(t, graph.HasRef(pathItem.Downstream, graph.SlugRef{
		RefSlug: "noble-eightfold-path",
		RefKind: graph.KindList,
		Note:    "Expands into Noble Eightfold Path",
	}))

	path := p.set.List("noble-eightfold-path")
	require.NotNil(t, path)
	assert.True(t, graph.HasRef(path.UpstreamFrom, graph.SlugRef{
		RefSlug: "path-to-end-suffering",
		RefKind: graph.KindDhamma,
		Note:    "Zooms in from Path to End Suffering",
	}))
}

func TestDetectColumnDownstreamSkipsContainment(t *testing.T) {
	// Right View is a structural child of Noble Eightfold Path; even though
	// it co-occurs with other column-1 rows it must not gain a zoom edge
	// back into its own list.
	p, err := parseNestedSheet(nestedFixture(), zap.NewNop())
	require.NoError(t, err)

	p.detectColumnDownstream(zap.NewNop())

	rightView := p.set.Dhamma("right-view")
	require.NotNil(t, rightView)
	for _, ref := range rightView.Downstream {
		assert.NotEqual(t, "noble-eightfold-path", ref.RefSlug)
	}
}

func TestDetectColumnDownstreamIsIdempotent(t *testing.T) {
	p, err := parseNestedSheet(nestedFixture(), zap.NewNop())
	require.NoError(t, err)

	p.detectColumnDownstream(zap.NewNop())
	pathItem := p.set.Dhamma("path-to-end-suffering")
	require.NotNil(t, pathItem)
	before := len(pathItem.Downstream)

	p.detectColumnDownstream(zap.NewNop())
	assert.Equal(t, before, len(pathItem.Downstream))
}
