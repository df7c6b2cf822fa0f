package pipeline

import (
	"go.uber.org/zap"

	"dhammakb/domain/graph"
)

// Foundations sheet layout: list name, item name, Pali term, notes.
const (
	foundationsListCol  = 0
	foundationsItemCol  = 1
	foundationsPaliCol  = 2
	foundationsNotesCol = 3
)

// parseFoundationsSheet reads the simpler four-column sheet holding the
// foundational and cross-cutting lists (Three Jewels, Three Marks of
// Existence, and so on). Rows missing either the list or the item name are
// skipped.
func parseFoundationsSheet(rows [][]string, logger *zap.Logger) *DraftSet {
	set := NewDraftSet()

	for i := 1; i < len(rows); i++ {
		row := rows[i]
		listName := cell(row, foundationsListCol)
		itemName := cell(row, foundationsItemCol)
		paliTerm := cell(row, foundationsPaliCol)
		notes := cell(row, foundationsNotesCol)

		if listName == "" || itemName == "" {
			continue
		}

		listClean, listPali := graph.SplitPaliName(listName)
		listSlug := graph.Slugify(listClean)
		list := set.AddList(&graph.DraftList{
			Slug:     listSlug,
			Name:     listClean,
			PaliName: listPali,
		})

		itemClean, itemPali := graph.SplitPaliName(itemName)
		if itemPali == "" {
			itemPali = paliTerm
		}
		itemSlug := graph.Slugify(itemClean)

		set.AddDhamma(&graph.DraftDhamma{
			Slug:           itemSlug,
			Name:           itemClean,
			PaliName:       itemPali,
			Notes:          notes,
			ParentListSlug: listSlug,
		})
		list.AddChild(itemSlug)
	}

	logger.Info("Parsed foundations sheet",
		zap.Int("lists", len(set.Lists())),
		zap.Int("dhammas", len(set.Dhammas())),
	)
	return set
}
