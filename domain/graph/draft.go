package graph

// SlugRef is a typed edge expressed against a slug instead of a stable ID.
// Slugs act as forward references while the graph is still being built:
// no ID exists until the store inserts the node, yet the data is mutually
// self-referential, so construction happens entirely in slug space and the
// materializer substitutes IDs in a second pass.
type SlugRef struct {
	RefSlug string   `dynamodbav:"ref_slug"`
	RefKind NodeKind `dynamodbav:"ref_kind"`
	Note    string   `dynamodbav:"note"`
}

// DraftList is a list under construction, keyed by slug.
type DraftList struct {
	Slug         string
	Name         string
	PaliName     string
	Description  string
	Children     []string // child dhamma slugs, display order
	UpstreamFrom []SlugRef
	ItemCount    int
}

// DraftDhamma is a dhamma under construction, keyed by slug.
type DraftDhamma struct {
	Slug            string
	Name            string
	PaliName        string
	Notes           string
	Essay           string
	PositionInList  int
	ParentListSlug  string
	Downstream      []SlugRef
	UpstreamFrom    []SlugRef
	CrossReferences []SlugRef
}

// HasChild reports whether slug is already a structural child.
func (l *DraftList) HasChild(slug string) bool {
	for _, c := range l.Children {
		if c == slug {
			return true
		}
	}
	return false
}

// AddChild appends slug to the children unless already present.
func (l *DraftList) AddChild(slug string) {
	if !l.HasChild(slug) {
		l.Children = append(l.Children, slug)
	}
}

// HasRef reports whether refs already contains an identical edge. Dedup is
// by exact equality so the same relationship inferred from two sources is
// wired once.
func HasRef(refs []SlugRef, ref SlugRef) bool {
	for _, r := range refs {
		if r == ref {
			return true
		}
	}
	return false
}
