package pipeline

import (
	"regexp"
	"strings"

	"go.uber.org/zap"

	"dhammakb/domain/graph"
)

// Pali names are often compound ("Lobha (Raga/Tanha)"); terms shorter than
// three characters are fragments, not concepts.
var paliTermSplitRe = regexp.MustCompile(`[/(),\s]+`)

const minPaliTermLen = 3

// detectCrossReferences links dhammas that share a Pali term across different
// parent lists: the same concept appearing in multiple contexts (Upekkha as
// both a Brahma Vihara and a Factor of Awakening). Dhammas sharing a term
// within one list are not cross-referenced, and every wired edge is
// symmetric.
func detectCrossReferences(set *DraftSet, logger *zap.Logger) {
	// term -> dhamma slugs carrying it, both in first-seen order.
	termSlugs := make(map[string][]string)
	var termOrder []string

	for _, d := range set.Dhammas() {
		pali := strings.ToLower(strings.TrimSpace(d.PaliName))
		if pali == "" {
			continue
		}
		for _, term := range paliTermSplitRe.Split(pali, -1) {
			term = strings.TrimSpace(term)
			if len(term) < minPaliTermLen {
				continue
			}
			if !containsString(termSlugs[term], d.Slug) {
				if _, ok := termSlugs[term]; !ok {
					termOrder = append(termOrder, term)
				}
				termSlugs[term] = append(termSlugs[term], d.Slug)
			}
		}
	}

	wired := 0
	for _, term := range termOrder {
		slugs := termSlugs[term]
		if len(slugs) < 2 {
			continue
		}
		for i, slugA := range slugs {
			for _, slugB := range slugs[i+1:] {
				a := set.Dhamma(slugA)
				b := set.Dhamma(slugB)
				if a == nil || b == nil {
					continue
				}
				if a.ParentListSlug == b.ParentListSlug {
					continue
				}

				refA := graph.SlugRef{
					RefSlug: slugB,
					RefKind: graph.KindDhamma,
					Note:    "Shared Pali '" + term + "' — also in " + b.ParentListSlug,
				}
				refB := graph.SlugRef{
					RefSlug: slugA,
					RefKind: graph.KindDhamma,
					Note:    "Shared Pali '" + term + "' — also in " + a.ParentListSlug,
				}
				if !graph.HasRef(a.CrossReferences, refA) {
					a.CrossReferences = append(a.CrossReferences, refA)
					wired++
				}
				if !graph.HasRef(b.CrossReferences, refB) {
					b.CrossReferences = append(b.CrossReferences, refB)
					wired++
				}
			}
		}
	}

	logger.Info("Detected cross-references via shared Pali terms",
		zap.Int("edges", wired),
	)
}

func containsString(ss []string, s string) bool {
	for _, v := range ss {
		if v == s {
			return true
		}
	}
	return false
}
