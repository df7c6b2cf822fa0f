// Package navigation computes the four directional views and the breadcrumb
// trail for a node. All reads go through the graph store; nothing is cached
// between requests.
package navigation

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"dhammakb/application/ports"
	"dhammakb/domain/graph"
	"dhammakb/pkg/apperrors"
)

// maxBreadcrumbHops bounds the upstream climb so a malformed graph cannot
// loop the trail forever.
const maxBreadcrumbHops = 16

// NodeSummary is one entry in a directional view or breadcrumb trail.
type NodeSummary struct {
	ID   string         `json:"id"`
	Name string         `json:"name"`
	Kind graph.NodeKind `json:"kind"`
	Note string         `json:"note,omitempty"`
}

// CurrentNode carries the full detail of the node being viewed.
type CurrentNode struct {
	ID             string         `json:"id"`
	Slug           string         `json:"slug"`
	Name           string         `json:"name"`
	PaliName       string         `json:"pali_name,omitempty"`
	Kind           graph.NodeKind `json:"kind"`
	Notes          string         `json:"notes,omitempty"`
	Essay          string         `json:"essay,omitempty"`
	Description    string         `json:"description,omitempty"`
	PositionInList int            `json:"position_in_list,omitempty"`
	ItemCount      int            `json:"item_count,omitempty"`
}

// Response is the complete navigation view for one node.
type Response struct {
	Current     CurrentNode   `json:"current"`
	Up          *NodeSummary  `json:"up"`
	Down        *NodeSummary  `json:"down"`
	Left        []NodeSummary `json:"left"`
	Right       []NodeSummary `json:"right"`
	Breadcrumbs []NodeSummary `json:"breadcrumbs"`
}

// Engine resolves navigation views against the graph store.
type Engine struct {
	store  ports.GraphStore
	logger *zap.Logger
}

// NewEngine creates an Engine.
func NewEngine(store ports.GraphStore, logger *zap.Logger) *Engine {
	return &Engine{store: store, logger: logger}
}

// Navigate builds the view for nodeID. The ID space is shared between lists
// and dhammas, so the list collection is consulted first and the dhamma
// collection only on a miss.
func (e *Engine) Navigate(ctx context.Context, nodeID string) (*Response, error) {
	if uuid.Validate(nodeID) != nil {
		return nil, apperrors.ErrInvalidID
	}

	list, err := e.store.GetList(ctx, nodeID)
	if err == nil {
		return e.navigateList(ctx, list)
	}
	if !errors.Is(err, apperrors.ErrNodeNotFound) {
		return nil, apperrors.NewDatabaseError(fmt.Sprintf("load list %s", nodeID), err)
	}
	dhamma, err := e.store.GetDhamma(ctx, nodeID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNodeNotFound) {
			return nil, apperrors.ErrNodeNotFound
		}
		return nil, apperrors.NewDatabaseError(fmt.Sprintf("load dhamma %s", nodeID), err)
	}
	return e.navigateDhamma(ctx, dhamma)
}

func (e *Engine) navigateList(ctx context.Context, list *graph.List) (*Response, error) {
	resp := &Response{
		Current: CurrentNode{
			ID:          list.ID,
			Slug:        list.Slug,
			Name:        list.Name,
			PaliName:    list.PaliName,
			Kind:        graph.KindList,
			Description: list.Description,
			ItemCount:   list.ItemCount,
		},
	}

	// Left: the dhammas this list zooms in from.
	left, err := e.summarizeRefs(ctx, list.UpstreamFrom)
	if err != nil {
		return nil, fmt.Errorf("resolve upstream of list %s: %w", list.Slug, err)
	}
	resp.Left = left

	// Right: the list's items, already in position order.
	names, err := e.store.DhammaNames(ctx, list.Children)
	if err != nil {
		return nil, fmt.Errorf("resolve children of list %s: %w", list.Slug, err)
	}
	resp.Right = make([]NodeSummary, 0, len(list.Children))
	for _, childID := range list.Children {
		name, ok := names[childID]
		if !ok {
			continue
		}
		resp.Right = append(resp.Right, NodeSummary{ID: childID, Name: name, Kind: graph.KindDhamma})
	}

	crumbs, err := e.breadcrumbs(ctx, list.ID)
	if err != nil {
		return nil, err
	}
	resp.Breadcrumbs = crumbs
	return resp, nil
}

func (e *Engine) navigateDhamma(ctx context.Context, d *graph.Dhamma) (*Response, error) {
	resp := &Response{
		Current: CurrentNode{
			ID:             d.ID,
			Slug:           d.Slug,
			Name:           d.Name,
			PaliName:       d.PaliName,
			Kind:           graph.KindDhamma,
			Notes:          d.Notes,
			Essay:          d.Essay,
			PositionInList: d.PositionInList,
		},
	}

	// Left: the containing list.
	if d.ParentListID != "" {
		parentNames, err := e.store.ListNames(ctx, []string{d.ParentListID})
		if err != nil {
			return nil, fmt.Errorf("resolve parent of dhamma %s: %w", d.Slug, err)
		}
		if name, ok := parentNames[d.ParentListID]; ok {
			resp.Left = []NodeSummary{{ID: d.ParentListID, Name: name, Kind: graph.KindList}}
		}
	}

	// Right: what this dhamma zooms into.
	right, err := e.summarizeRefs(ctx, d.Downstream)
	if err != nil {
		return nil, fmt.Errorf("resolve downstream of dhamma %s: %w", d.Slug, err)
	}
	resp.Right = right

	// Up and down: adjacent siblings by position within the parent list.
	if d.ParentListID != "" && d.PositionInList > 0 {
		siblings, err := e.store.SiblingRange(ctx, d.ParentListID, d.PositionInList-1, d.PositionInList+1)
		if err != nil {
			return nil, fmt.Errorf("resolve siblings of dhamma %s: %w", d.Slug, err)
		}
		for _, sib := range siblings {
			switch sib.PositionInList {
			case d.PositionInList - 1:
				resp.Up = &NodeSummary{ID: sib.ID, Name: sib.Name, Kind: graph.KindDhamma}
			case d.PositionInList + 1:
				resp.Down = &NodeSummary{ID: sib.ID, Name: sib.Name, Kind: graph.KindDhamma}
			}
		}
	}

	crumbs, err := e.breadcrumbs(ctx, d.ID)
	if err != nil {
		return nil, err
	}
	resp.Breadcrumbs = crumbs
	return resp, nil
}

// summarizeRefs resolves a mixed-kind reference slice into summaries, one
// bulk name lookup per collection. Order follows the input references.
func (e *Engine) summarizeRefs(ctx context.Context, refs []graph.Reference) ([]NodeSummary, error) {
	var listIDs, dhammaIDs []string
	for _, ref := range refs {
		switch ref.RefKind {
		case graph.KindList:
			listIDs = append(listIDs, ref.RefID)
		case graph.KindDhamma:
			dhammaIDs = append(dhammaIDs, ref.RefID)
		}
	}

	listNames := map[string]string{}
	if len(listIDs) > 0 {
		var err error
		listNames, err = e.store.ListNames(ctx, listIDs)
		if err != nil {
			return nil, err
		}
	}
	dhammaNames := map[string]string{}
	if len(dhammaIDs) > 0 {
		var err error
		dhammaNames, err = e.store.DhammaNames(ctx, dhammaIDs)
		if err != nil {
			return nil, err
		}
	}

	out := make([]NodeSummary, 0, len(refs))
	for _, ref := range refs {
		var name string
		var ok bool
		switch ref.RefKind {
		case graph.KindList:
			name, ok = listNames[ref.RefID]
		case graph.KindDhamma:
			name, ok = dhammaNames[ref.RefID]
		}
		if !ok {
			continue
		}
		out = append(out, NodeSummary{ID: ref.RefID, Name: name, Kind: ref.RefKind, Note: ref.Note})
	}
	return out, nil
}

// breadcrumbs climbs the graph from startID toward a root, alternating
// between the two node kinds: a dhamma climbs to its parent list, a list
// climbs to the first dhamma that zooms into it. The trail is returned
// root-first and excludes the current node.
func (e *Engine) breadcrumbs(ctx context.Context, startID string) ([]NodeSummary, error) {
	var trail []NodeSummary
	currentID := startID

	for hop := 0; hop < maxBreadcrumbHops; hop++ {
		list, err := e.store.GetList(ctx, currentID)
		if err == nil {
			trail = append(trail, NodeSummary{ID: list.ID, Name: list.Name, Kind: graph.KindList})
			if len(list.UpstreamFrom) == 0 {
				break
			}
			currentID = list.UpstreamFrom[0].RefID
			continue
		}
		if !errors.Is(err, apperrors.ErrNodeNotFound) {
			return nil, apperrors.NewDatabaseError(fmt.Sprintf("climb trail at %s", currentID), err)
		}
		dhamma, err := e.store.GetDhamma(ctx, currentID)
		if err != nil {
			if errors.Is(err, apperrors.ErrNodeNotFound) {
				// A dangling upstream reference ends the climb.
				break
			}
			return nil, apperrors.NewDatabaseError(fmt.Sprintf("climb trail at %s", currentID), err)
		}
		trail = append(trail, NodeSummary{ID: dhamma.ID, Name: dhamma.Name, Kind: graph.KindDhamma})
		if dhamma.ParentListID == "" {
			break
		}
		currentID = dhamma.ParentListID
	}

	// Reverse to root-first, then drop the current node itself.
	for i, j := 0, len(trail)-1; i < j; i, j = i+1, j-1 {
		trail[i], trail[j] = trail[j], trail[i]
	}
	if len(trail) > 0 {
		trail = trail[:len(trail)-1]
	}
	return trail, nil
}
