package pipeline

import (
	"fmt"

	"go.uber.org/zap"

	"dhammakb/domain/graph"
)

// Nested-sheet column layout: columns 0-8 are hierarchy levels, each header
// naming one top-level list; column 9 holds expansion items, column 10 the
// Pali term and column 11 free-text notes.
const (
	hierarchyColumns = 9
	expansionCol     = 9
	paliTermCol      = 10
	notesCol         = 11
)

// nestedParse is the output of parsing the nested-lists sheet: the draft
// nodes plus the walked row table the co-occurrence inferencer needs.
type nestedParse struct {
	set *DraftSet
	// columns maps a hierarchy column index to the slug of the list created
	// from its header.
	columns map[int]string
	// rowSlugs records, per data row, which hierarchy columns held a dhamma
	// and which slug it resolved to.
	rowSlugs []map[int]string
}

// sublistContext tracks the currently open sub-list while walking rows. The
// notes column announces a sub-list once, and subsequent expansion rows under
// the same parent dhamma keep feeding it; the context closes when a row
// without an expansion value carries a different deepest-column dhamma.
type sublistContext struct {
	slug         string
	parentDhamma string
}

func (c *sublistContext) open() bool { return c.slug != "" }

func (c *sublistContext) reset() {
	c.slug = ""
	c.parentDhamma = ""
}

// parseNestedSheet walks the nested-lists sheet in three passes: lists from
// column headers, dhammas and note-announced sub-lists from the row walk, and
// (via detectColumnDownstream, run by the caller) implicit zoom edges from
// column co-occurrence.
func parseNestedSheet(rows [][]string, logger *zap.Logger) (*nestedParse, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("nested sheet has no rows")
	}

	p := &nestedParse{
		set:     NewDraftSet(),
		columns: make(map[int]string),
	}

	// Pass 1: one top-level list per populated hierarchy header.
	header := rows[0]
	for col := 0; col < hierarchyColumns; col++ {
		val := cell(header, col)
		if val == "" {
			continue
		}
		name, pali := graph.ParseHeader(val)
		slug := graph.Slugify(name)
		p.columns[col] = slug
		p.set.AddList(&graph.DraftList{
			Slug:     slug,
			Name:     name,
			PaliName: pali,
		})
	}
	if len(p.columns) == 0 {
		return nil, fmt.Errorf("nested sheet header row names no lists")
	}
	logger.Info("Created top-level lists from column headers",
		zap.Int("count", len(p.columns)),
	)

	// Pass 2: walk data rows.
	var ctx sublistContext
	for _, row := range rows[1:] {
		p.walkRow(row, &ctx, logger)
	}

	return p, nil
}

// walkRow processes one data row: register hierarchy-column dhammas, detect
// note-announced sub-lists, assign the expansion item, backfill metadata on
// the row's deepest dhamma, and maintain the open sub-list context.
func (p *nestedParse) walkRow(row []string, ctx *sublistContext, logger *zap.Logger) {
	expansion := cell(row, expansionCol)
	paliTerm := cell(row, paliTermCol)
	notes := cell(row, notesCol)

	// Deepest (rightmost) populated hierarchy column is the row's active
	// parent.
	deepestCol := -1
	for col := hierarchyColumns - 1; col >= 0; col-- {
		if _, ok := p.columns[col]; ok && cell(row, col) != "" {
			deepestCol = col
			break
		}
	}

	// Hierarchy-column dhammas.
	rowSlugs := make(map[int]string)
	for col := 0; col < hierarchyColumns; col++ {
		val := cell(row, col)
		if val == "" {
			continue
		}
		listSlug, ok := p.columns[col]
		if !ok {
			continue
		}
		name, pali := graph.SplitPaliName(val)
		name = graph.StripOrdinalPrefix(name)
		slug := graph.Slugify(name)
		rowSlugs[col] = slug

		if p.set.Dhamma(slug) == nil {
			p.set.AddDhamma(&graph.DraftDhamma{
				Slug:           slug,
				Name:           name,
				PaliName:       pali,
				ParentListSlug: listSlug,
			})
			p.set.List(listSlug).AddChild(slug)
		}
	}
	p.rowSlugs = append(p.rowSlugs, rowSlugs)

	// Note-announced sub-lists. A match only opens a sub-list when the row
	// also carries an expansion item; bare prose never does.
	if sublistName, sublistPali, ok := matchSublist(notes); ok && expansion != "" {
		sublistSlug := graph.Slugify(sublistName)
		if p.set.List(sublistSlug) == nil {
			p.set.AddList(&graph.DraftList{
				Slug:     sublistSlug,
				Name:     sublistName,
				PaliName: sublistPali,
			})
			logger.Info("Created sub-list from notes",
				zap.String("name", sublistName),
				zap.String("pali", sublistPali),
			)
		}
		ctx.slug = sublistSlug

		// The sub-list hangs off the deepest dhamma on this row.
		if parent, ok := rowSlugs[deepestCol]; ok {
			ctx.parentDhamma = parent
			wireDownstream(p.set, parent, sublistSlug)
		}
	}

	if expansion != "" {
		p.assignExpansion(expansion, paliTerm, notes, deepestCol, rowSlugs, ctx, logger)
	}

	// Pali term and notes attach to the row's deepest dhamma when it has
	// neither yet.
	if slug, ok := rowSlugs[deepestCol]; ok {
		if d := p.set.Dhamma(slug); d != nil {
			if paliTerm != "" && d.PaliName == "" {
				d.PaliName = paliTerm
			}
			if notes != "" && d.Notes == "" {
				d.Notes = notes
			}
		}
	}

	// Close the sub-list context when an expansion-less row moves to a
	// different active parent.
	if expansion == "" && ctx.open() {
		if parent, ok := rowSlugs[deepestCol]; ok && parent != ctx.parentDhamma {
			ctx.reset()
		}
	}
}

// assignExpansion places an expansion-column item into the open sub-list,
// creating an implicit "Aspects of <parent>" list when none is open. The
// implicit list keeps unlabeled expansion rows from polluting the parent
// list's direct children.
func (p *nestedParse) assignExpansion(expansion, paliTerm, notes string, deepestCol int, rowSlugs map[int]string, ctx *sublistContext, logger *zap.Logger) {
	name, paliFromName := graph.SplitPaliName(expansion)
	name = graph.StripOrdinalPrefix(name)
	slug := graph.Slugify(name)
	pali := paliTerm
	if pali == "" {
		pali = paliFromName
	}

	targetSlug := ctx.slug
	if targetSlug == "" && deepestCol >= 0 {
		parentSlug, ok := rowSlugs[deepestCol]
		if ok {
			if parent := p.set.Dhamma(parentSlug); parent != nil {
				implicitSlug := parentSlug + "-aspects"
				if p.set.List(implicitSlug) == nil {
					p.set.AddList(&graph.DraftList{
						Slug:        implicitSlug,
						Name:        "Aspects of " + parent.Name,
						Description: "Sub-teachings expanding on " + parent.Name,
					})
					logger.Info("Created implicit sub-list",
						zap.String("slug", implicitSlug),
						zap.String("parent", parent.Name),
					)
					wireDownstream(p.set, parentSlug, implicitSlug)
				}
				targetSlug = implicitSlug
				ctx.slug = implicitSlug
				ctx.parentDhamma = parentSlug
			}
		}
	}

	target := p.set.List(targetSlug)
	if target == nil {
		return
	}

	d := p.set.Dhamma(slug)
	if d == nil {
		d = p.set.AddDhamma(&graph.DraftDhamma{
			Slug:           slug,
			Name:           name,
			PaliName:       pali,
			Notes:          notes,
			ParentListSlug: targetSlug,
		})
	} else if d.Notes == "" && notes != "" {
		d.Notes = notes
	}
	target.AddChild(slug)

	if paliTerm != "" && d.PaliName == "" {
		d.PaliName = paliTerm
	}
}

// wireDownstream wires the zoom edge parent dhamma -> sub-list and its
// inverse upstream edge, deduplicating by exact edge equality. Both the
// notes-column matchers and the column co-occurrence inferencer feed this one
// helper.
func wireDownstream(set *DraftSet, parentDhammaSlug, listSlug string) {
	parent := set.Dhamma(parentDhammaSlug)
	list := set.List(listSlug)
	if parent == nil || list == nil {
		return
	}

	down := graph.SlugRef{
		RefSlug: listSlug,
		RefKind: graph.KindList,
		Note:    "Expands into " + list.Name,
	}
	if !graph.HasRef(parent.Downstream, down) {
		parent.Downstream = append(parent.Downstream, down)
	}

	up := graph.SlugRef{
		RefSlug: parentDhammaSlug,
		RefKind: graph.KindDhamma,
		Note:    "Zooms in from " + parent.Name,
	}
	if !graph.HasRef(list.UpstreamFrom, up) {
		list.UpstreamFrom = append(list.UpstreamFrom, up)
	}
}
