package pipeline

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"dhammakb/application/ports"
	"dhammakb/domain/graph"
)

// EssayLoader fetches previously generated essay text for a dhamma slug.
// Missing essays are valid and return the empty string.
type EssayLoader interface {
	Load(slug string) string
}

// Materializer persists a fully merged draft set and resolves every
// slug-based reference into a stable ID.
//
// The protocol is two-phase because IDs do not exist until insertion, yet the
// data is mutually self-referential: insert everything with slugs intact,
// read the slug indexes back, then rewrite each document's references. A full
// run is repeat-safe: prior state is discarded up front, and essays are
// reattached by slug so generation never has to precede seeding.
type Materializer struct {
	store  ports.GraphStore
	essays EssayLoader
	logger *zap.Logger
}

// NewMaterializer creates a Materializer. essays may be nil when no essay
// source exists.
func NewMaterializer(store ports.GraphStore, essays EssayLoader, logger *zap.Logger) *Materializer {
	return &Materializer{store: store, essays: essays, logger: logger}
}

// Materialize runs the full two-phase protocol over set.
func (m *Materializer) Materialize(ctx context.Context, set *DraftSet) error {
	if err := m.store.Reset(ctx); err != nil {
		return fmt.Errorf("reset graph store: %w", err)
	}
	m.logger.Info("Dropped existing collections before seeding")

	dhammas := set.Dhammas()
	if m.essays != nil {
		attached := 0
		for _, d := range dhammas {
			if essay := m.essays.Load(d.Slug); essay != "" {
				d.Essay = essay
				attached++
			}
		}
		m.logger.Info("Attached essays", zap.Int("count", attached))
	}

	// Phase 1: insert with slug placeholders.
	lists := set.Lists()
	if err := m.store.InsertLists(ctx, lists); err != nil {
		return fmt.Errorf("insert lists: %w", err)
	}
	if err := m.store.InsertDhammas(ctx, dhammas); err != nil {
		return fmt.Errorf("insert dhammas: %w", err)
	}
	m.logger.Info("Inserted draft documents",
		zap.Int("lists", len(lists)),
		zap.Int("dhammas", len(dhammas)),
	)

	// Phase 2: slug -> ID lookups from the just-inserted documents.
	listIndex, err := m.store.ListSlugIndex(ctx)
	if err != nil {
		return fmt.Errorf("read list slug index: %w", err)
	}
	dhammaIndex, err := m.store.DhammaSlugIndex(ctx)
	if err != nil {
		return fmt.Errorf("read dhamma slug index: %w", err)
	}
	combined := make(map[string]string, len(listIndex)+len(dhammaIndex))
	for slug, id := range listIndex {
		combined[slug] = id
	}
	for slug, id := range dhammaIndex {
		combined[slug] = id
	}

	// Phase 3: rewrite references. Dangling slugs are dropped rather than
	// failing the run; the validator surfaces anything suspicious.
	for _, l := range lists {
		id, ok := listIndex[l.Slug]
		if !ok {
			return fmt.Errorf("list %q missing from slug index after insert", l.Slug)
		}
		children := make([]string, 0, len(l.Children))
		for _, childSlug := range l.Children {
			if childID, ok := dhammaIndex[childSlug]; ok {
				children = append(children, childID)
			} else {
				m.logger.Warn("Dropping dangling child reference",
					zap.String("list", l.Slug),
					zap.String("child", childSlug),
				)
			}
		}
		upstream := resolveRefs(l.UpstreamFrom, combined)
		if err := m.store.ResolveList(ctx, id, children, upstream); err != nil {
			return fmt.Errorf("resolve list %s: %w", l.Slug, err)
		}
	}

	for _, d := range dhammas {
		id, ok := dhammaIndex[d.Slug]
		if !ok {
			return fmt.Errorf("dhamma %q missing from slug index after insert", d.Slug)
		}
		parentID := listIndex[d.ParentListSlug]
		if parentID == "" {
			m.logger.Warn("Dhamma has unresolvable parent list",
				zap.String("dhamma", d.Slug),
				zap.String("parent", d.ParentListSlug),
			)
		}
		downstream := resolveRefs(d.Downstream, combined)
		upstream := resolveRefs(d.UpstreamFrom, combined)
		// Cross-references resolve against dhammas only.
		crossRefs := resolveRefs(d.CrossReferences, dhammaIndex)
		if err := m.store.ResolveDhamma(ctx, id, parentID, downstream, upstream, crossRefs); err != nil {
			return fmt.Errorf("resolve dhamma %s: %w", d.Slug, err)
		}
	}

	m.logger.Info("Resolved all slug references to stable IDs")
	return nil
}

// resolveRefs maps slug references through index, silently dropping any slug
// the index does not know.
func resolveRefs(refs []graph.SlugRef, index map[string]string) []graph.Reference {
	out := make([]graph.Reference, 0, len(refs))
	for _, ref := range refs {
		id, ok := index[ref.RefSlug]
		if !ok {
			continue
		}
		out = append(out, graph.Reference{
			RefID:   id,
			RefKind: ref.RefKind,
			Note:    ref.Note,
		})
	}
	return out
}
