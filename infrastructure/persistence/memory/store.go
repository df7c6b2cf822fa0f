// Package memory provides an in-memory GraphStore. It backs tests and local
// experiments; the wiring in production uses the DynamoDB store.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"dhammakb/domain/graph"
	"dhammakb/pkg/apperrors"
)

// Store holds the graph in maps guarded by a single mutex. Insertion order
// is preserved so AllLists and AllDhammas are deterministic.
type Store struct {
	mu          sync.RWMutex
	lists       map[string]*graph.List
	dhammas     map[string]*graph.Dhamma
	listOrder   []string
	dhammaOrder []string
}

// NewStore creates an empty Store.
func NewStore() *Store {
	s := &Store{}
	s.reset()
	return s
}

func (s *Store) reset() {
	s.lists = make(map[string]*graph.List)
	s.dhammas = make(map[string]*graph.Dhamma)
	s.listOrder = nil
	s.dhammaOrder = nil
}

// Reset drops all nodes.
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reset()
	return nil
}

// InsertLists stores drafts with fresh IDs. Reference fields stay empty
// until the resolution phase.
func (s *Store) InsertLists(ctx context.Context, drafts []*graph.DraftList) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, d := range drafts {
		id := uuid.NewString()
		s.lists[id] = &graph.List{
			ID:          id,
			Slug:        d.Slug,
			Name:        d.Name,
			PaliName:    d.PaliName,
			Description: d.Description,
			ItemCount:   d.ItemCount,
		}
		s.listOrder = append(s.listOrder, id)
	}
	return nil
}

// InsertDhammas stores drafts with fresh IDs.
func (s *Store) InsertDhammas(ctx context.Context, drafts []*graph.DraftDhamma) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, d := range drafts {
		id := uuid.NewString()
		s.dhammas[id] = &graph.Dhamma{
			ID:             id,
			Slug:           d.Slug,
			Name:           d.Name,
			PaliName:       d.PaliName,
			Notes:          d.Notes,
			Essay:          d.Essay,
			PositionInList: d.PositionInList,
		}
		s.dhammaOrder = append(s.dhammaOrder, id)
	}
	return nil
}

// ListSlugIndex maps list slugs to their assigned IDs.
func (s *Store) ListSlugIndex(ctx context.Context) (map[string]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	index := make(map[string]string, len(s.lists))
	for id, l := range s.lists {
		index[l.Slug] = id
	}
	return index, nil
}

// DhammaSlugIndex maps dhamma slugs to their assigned IDs.
func (s *Store) DhammaSlugIndex(ctx context.Context) (map[string]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	index := make(map[string]string, len(s.dhammas))
	for id, d := range s.dhammas {
		index[d.Slug] = id
	}
	return index, nil
}

// ResolveList writes the ID-based reference fields of a list.
func (s *Store) ResolveList(ctx context.Context, id string, children []string, upstream []graph.Reference) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.lists[id]
	if !ok {
		return apperrors.ErrNodeNotFound
	}
	l.Children = children
	l.UpstreamFrom = upstream
	return nil
}

// ResolveDhamma writes the ID-based reference fields of a dhamma.
func (s *Store) ResolveDhamma(ctx context.Context, id, parentListID string, downstream, upstream, crossRefs []graph.Reference) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.dhammas[id]
	if !ok {
		return apperrors.ErrNodeNotFound
	}
	d.ParentListID = parentListID
	d.Downstream = downstream
	d.UpstreamFrom = upstream
	d.CrossReferences = crossRefs
	return nil
}

// GetList returns a copy of the list with the given ID.
func (s *Store) GetList(ctx context.Context, id string) (*graph.List, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	l, ok := s.lists[id]
	if !ok {
		return nil, apperrors.ErrNodeNotFound
	}
	clone := *l
	return &clone, nil
}

// GetDhamma returns a copy of the dhamma with the given ID.
func (s *Store) GetDhamma(ctx context.Context, id string) (*graph.Dhamma, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.dhammas[id]
	if !ok {
		return nil, apperrors.ErrNodeNotFound
	}
	clone := *d
	return &clone, nil
}

// AllLists returns every list in insertion order.
func (s *Store) AllLists(ctx context.Context) ([]*graph.List, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*graph.List, 0, len(s.listOrder))
	for _, id := range s.listOrder {
		clone := *s.lists[id]
		out = append(out, &clone)
	}
	return out, nil
}

// AllDhammas returns every dhamma in insertion order.
func (s *Store) AllDhammas(ctx context.Context) ([]*graph.Dhamma, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*graph.Dhamma, 0, len(s.dhammaOrder))
	for _, id := range s.dhammaOrder {
		clone := *s.dhammas[id]
		out = append(out, &clone)
	}
	return out, nil
}

// ListNames resolves list IDs to display names. Unknown IDs are omitted.
func (s *Store) ListNames(ctx context.Context, ids []string) (map[string]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make(map[string]string, len(ids))
	for _, id := range ids {
		if l, ok := s.lists[id]; ok {
			names[id] = l.Name
		}
	}
	return names, nil
}

// DhammaNames resolves dhamma IDs to display names. Unknown IDs are omitted.
func (s *Store) DhammaNames(ctx context.Context, ids []string) (map[string]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make(map[string]string, len(ids))
	for _, id := range ids {
		if d, ok := s.dhammas[id]; ok {
			names[id] = d.Name
		}
	}
	return names, nil
}

// SiblingRange returns the dhammas of a list whose positions fall in
// [lo, hi], ordered by position.
func (s *Store) SiblingRange(ctx context.Context, parentListID string, lo, hi int) ([]*graph.Dhamma, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*graph.Dhamma
	for _, id := range s.dhammaOrder {
		d := s.dhammas[id]
		if d.ParentListID != parentListID {
			continue
		}
		if d.PositionInList < lo || d.PositionInList > hi {
			continue
		}
		clone := *d
		out = append(out, &clone)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PositionInList < out[j].PositionInList })
	return out, nil
}

// Search matches q case-insensitively against names and Pali names of both
// node kinds. Lists come first, then dhammas, each in insertion order.
func (s *Store) Search(ctx context.Context, q string) ([]graph.SearchResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	needle := strings.ToLower(strings.TrimSpace(q))
	if needle == "" {
		return nil, nil
	}
	var out []graph.SearchResult
	for _, id := range s.listOrder {
		l := s.lists[id]
		if matchesQuery(needle, l.Name, l.PaliName) {
			out = append(out, graph.SearchResult{ID: l.ID, Name: l.Name, PaliName: l.PaliName, Kind: graph.KindList})
		}
	}
	for _, id := range s.dhammaOrder {
		d := s.dhammas[id]
		if matchesQuery(needle, d.Name, d.PaliName) {
			out = append(out, graph.SearchResult{ID: d.ID, Name: d.Name, PaliName: d.PaliName, Kind: graph.KindDhamma})
		}
	}
	return out, nil
}

func matchesQuery(needle string, fields ...string) bool {
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), needle) {
			return true
		}
	}
	return false
}
