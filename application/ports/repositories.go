// Package ports defines the storage interface the pipeline, validator and
// navigation engine depend on. Implementations live under
// infrastructure/persistence.
package ports

import (
	"context"

	"dhammakb/domain/graph"
)

// GraphStore persists the two document collections (lists, dhammas) and
// serves the read patterns of the navigation engine and validator.
//
// The write half mirrors the two-phase materialization protocol: drafts are
// inserted with slug-based references intact, the slug indexes are read back,
// and Resolve* rewrites each document's references as stable IDs. Reset is a
// destructive, non-transactional drop of both collections; callers must
// serialize materialization runs.
type GraphStore interface {
	// Reset discards all persisted lists and dhammas.
	Reset(ctx context.Context) error

	// InsertLists and InsertDhammas persist draft documents, assigning each a
	// stable ID. References stay slug-based until resolved.
	InsertLists(ctx context.Context, lists []*graph.DraftList) error
	InsertDhammas(ctx context.Context, dhammas []*graph.DraftDhamma) error

	// ListSlugIndex and DhammaSlugIndex re-read the just-inserted documents
	// and return slug -> ID lookups.
	ListSlugIndex(ctx context.Context) (map[string]string, error)
	DhammaSlugIndex(ctx context.Context) (map[string]string, error)

	// ResolveList replaces a list's slug references with resolved IDs.
	ResolveList(ctx context.Context, id string, children []string, upstream []graph.Reference) error
	// ResolveDhamma replaces a dhamma's slug references with resolved IDs.
	ResolveDhamma(ctx context.Context, id, parentListID string, downstream, upstream, crossRefs []graph.Reference) error

	// Readers. GetList and GetDhamma return apperrors.ErrNodeNotFound when no
	// document has the given ID.
	GetList(ctx context.Context, id string) (*graph.List, error)
	GetDhamma(ctx context.Context, id string) (*graph.Dhamma, error)
	AllLists(ctx context.Context) ([]*graph.List, error)
	AllDhammas(ctx context.Context) ([]*graph.Dhamma, error)

	// ListNames and DhammaNames batch-resolve IDs to display names, one bulk
	// lookup per collection. Unknown IDs are simply absent from the result.
	ListNames(ctx context.Context, ids []string) (map[string]string, error)
	DhammaNames(ctx context.Context, ids []string) (map[string]string, error)

	// SiblingRange returns the dhammas of a parent list whose
	// position_in_list lies in [lo, hi].
	SiblingRange(ctx context.Context, parentListID string, lo, hi int) ([]*graph.Dhamma, error)

	// Search matches q case-insensitively against name and pali_name of both
	// node kinds.
	Search(ctx context.Context, q string) ([]graph.SearchResult, error)
}
