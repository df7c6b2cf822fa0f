// Package graph defines the node and edge types of the dhamma knowledge
// graph. Two node kinds exist: a List is a named grouping of teachings, a
// Dhamma is an individual teaching. Nodes are connected by containment
// (list -> its children), zoom (dhamma -> the sub-list it expands into, with
// the inverse upstream edge) and symmetric cross-references between dhammas
// that share a concept across different lists.
package graph

// NodeKind discriminates the two node kinds.
type NodeKind string

const (
	KindList   NodeKind = "list"
	KindDhamma NodeKind = "dhamma"
)

// Reference is a typed edge to another node, resolved to a stable ID.
type Reference struct {
	RefID   string   `json:"ref_id" dynamodbav:"ref_id"`
	RefKind NodeKind `json:"ref_kind" dynamodbav:"ref_kind"`
	Note    string   `json:"note" dynamodbav:"note"`
}

// List is a materialized list document. Children hold dhamma IDs in display
// order; UpstreamFrom holds the dhammas that zoom into this list.
type List struct {
	ID           string      `json:"id"`
	Slug         string      `json:"slug"`
	Name         string      `json:"name"`
	PaliName     string      `json:"pali_name"`
	Description  string      `json:"description"`
	Children     []string    `json:"children"`
	UpstreamFrom []Reference `json:"upstream_from"`
	ItemCount    int         `json:"item_count"`
}

// Dhamma is a materialized dhamma document. PositionInList is 1-based within
// the parent list.
type Dhamma struct {
	ID              string      `json:"id"`
	Slug            string      `json:"slug"`
	Name            string      `json:"name"`
	PaliName        string      `json:"pali_name"`
	Notes           string      `json:"notes"`
	Essay           string      `json:"essay"`
	PositionInList  int         `json:"position_in_list"`
	ParentListID    string      `json:"parent_list_id"`
	Downstream      []Reference `json:"downstream"`
	UpstreamFrom    []Reference `json:"upstream_from"`
	CrossReferences []Reference `json:"cross_references"`
}

// SearchResult is a lightweight hit returned by name/Pali search.
type SearchResult struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	PaliName string   `json:"pali_name"`
	Kind     NodeKind `json:"type"`
}
