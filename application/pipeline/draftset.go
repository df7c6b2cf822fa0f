package pipeline

import "dhammakb/domain/graph"

// DraftSet accumulates draft lists and dhammas keyed by slug while preserving
// first-seen order, so repeated pipeline runs over the same input produce the
// same document sequence. A slug, once created, is never overwritten: first
// occurrence wins for identity, later occurrences only backfill empty
// metadata.
type DraftSet struct {
	lists       map[string]*graph.DraftList
	dhammas     map[string]*graph.DraftDhamma
	listOrder   []string
	dhammaOrder []string
}

// NewDraftSet creates an empty DraftSet.
func NewDraftSet() *DraftSet {
	return &DraftSet{
		lists:   make(map[string]*graph.DraftList),
		dhammas: make(map[string]*graph.DraftDhamma),
	}
}

// List returns the draft list with the given slug, or nil.
func (s *DraftSet) List(slug string) *graph.DraftList {
	return s.lists[slug]
}

// Dhamma returns the draft dhamma with the given slug, or nil.
func (s *DraftSet) Dhamma(slug string) *graph.DraftDhamma {
	return s.dhammas[slug]
}

// Lists returns all draft lists in first-seen order.
func (s *DraftSet) Lists() []*graph.DraftList {
	out := make([]*graph.DraftList, 0, len(s.listOrder))
	for _, slug := range s.listOrder {
		out = append(out, s.lists[slug])
	}
	return out
}

// Dhammas returns all draft dhammas in first-seen order.
func (s *DraftSet) Dhammas() []*graph.DraftDhamma {
	out := make([]*graph.DraftDhamma, 0, len(s.dhammaOrder))
	for _, slug := range s.dhammaOrder {
		out = append(out, s.dhammas[slug])
	}
	return out
}

// AddList registers a draft list. If the slug already exists the existing
// list is returned unchanged except for Pali-name backfill.
func (s *DraftSet) AddList(l *graph.DraftList) *graph.DraftList {
	if existing, ok := s.lists[l.Slug]; ok {
		if existing.PaliName == "" && l.PaliName != "" {
			existing.PaliName = l.PaliName
		}
		return existing
	}
	s.lists[l.Slug] = l
	s.listOrder = append(s.listOrder, l.Slug)
	return l
}

// AddDhamma registers a draft dhamma. If the slug already exists the existing
// dhamma is returned unchanged except for Pali-name and notes backfill.
func (s *DraftSet) AddDhamma(d *graph.DraftDhamma) *graph.DraftDhamma {
	if existing, ok := s.dhammas[d.Slug]; ok {
		if existing.PaliName == "" && d.PaliName != "" {
			existing.PaliName = d.PaliName
		}
		if existing.Notes == "" && d.Notes != "" {
			existing.Notes = d.Notes
		}
		return existing
	}
	s.dhammas[d.Slug] = d
	s.dhammaOrder = append(s.dhammaOrder, d.Slug)
	return d
}

// Merge unions another draft set into this one. Lists union their children
// (first-seen order kept, unseen slugs appended); dhammas keep the first
// occurrence as authoritative. Both backfill empty Pali names and notes.
func (s *DraftSet) Merge(other *DraftSet) {
	for _, l := range other.Lists() {
		merged := s.AddList(l)
		if merged != l {
			for _, child := range l.Children {
				merged.AddChild(child)
			}
		}
	}
	for _, d := range other.Dhammas() {
		s.AddDhamma(d)
	}
}
