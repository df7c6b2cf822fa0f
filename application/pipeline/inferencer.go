package pipeline

import (
	"sort"

	"go.uber.org/zap"
)

// detectColumnDownstream infers zoom edges from column co-occurrence: when a
// dhamma in hierarchy column X appears on the same rows as items in a
// strictly deeper column Y, dhamma X expands into the list owning column Y.
// The column structure of the sheet implies these fractal relationships even
// when the notes column never announces them.
//
// A dhamma that is itself a structural child of the deeper list is skipped:
// containment must never be duplicated as zoom.
func (p *nestedParse) detectColumnDownstream(logger *zap.Logger) {
	// dhamma slug -> set of deeper columns co-occurring on its rows.
	deeperCols := make(map[string]map[int]bool)
	// first-seen order for deterministic wiring.
	var order []string

	for _, rowSlugs := range p.rowSlugs {
		for col := 0; col < hierarchyColumns; col++ {
			slug, ok := rowSlugs[col]
			if !ok {
				continue
			}
			if _, seen := deeperCols[slug]; !seen {
				deeperCols[slug] = make(map[int]bool)
				order = append(order, slug)
			}
			for deeper := range rowSlugs {
				if deeper > col {
					deeperCols[slug][deeper] = true
				}
			}
		}
	}

	wired := 0
	for _, slug := range order {
		if p.set.Dhamma(slug) == nil {
			continue
		}
		cols := make([]int, 0, len(deeperCols[slug]))
		for col := range deeperCols[slug] {
			cols = append(cols, col)
		}
		sort.Ints(cols)

		for _, col := range cols {
			listSlug, ok := p.columns[col]
			if !ok {
				continue
			}
			list := p.set.List(listSlug)
			if list == nil {
				continue
			}
			// Containment, not zoom.
			if list.HasChild(slug) {
				continue
			}
			wireDownstream(p.set, slug, listSlug)
			wired++
		}
	}

	logger.Info("Inferred zoom edges from column co-occurrence",
		zap.Int("edges", wired),
	)
}
