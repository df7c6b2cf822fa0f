// Package validation runs the integrity checks that prove the materialized
// graph obeys its invariants. Checks only read; nothing here mutates the
// graph, and failures are reported, never thrown.
package validation

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"dhammakb/application/ports"
	"dhammakb/domain/graph"
)

// CheckResult is the outcome of one check.
type CheckResult struct {
	Name   string `json:"check_name"`
	Passed bool   `json:"passed"`
	Detail string `json:"detail"`
	// informational checks are reported but never fail the run.
	informational bool
}

// Report aggregates all check results. Passed reflects every
// non-informational check.
type Report struct {
	Checks []CheckResult `json:"checks"`
	Passed bool          `json:"passed"`
}

func (r *Report) add(name string, passed bool, detail string) {
	r.Checks = append(r.Checks, CheckResult{Name: name, Passed: passed, Detail: detail})
}

func (r *Report) addInformational(name string, passed bool, detail string) {
	r.Checks = append(r.Checks, CheckResult{
		Name: name, Passed: passed, Detail: detail, informational: true,
	})
}

func (r *Report) finish() {
	r.Passed = true
	for _, c := range r.Checks {
		if !c.Passed && !c.informational {
			r.Passed = false
			return
		}
	}
}

// Validator reads the materialized graph and verifies its consistency.
type Validator struct {
	store  ports.GraphStore
	logger *zap.Logger
}

// New creates a Validator.
func New(store ports.GraphStore, logger *zap.Logger) *Validator {
	return &Validator{store: store, logger: logger}
}

// Run executes every check in order and returns the report. The dataset is a
// few hundred documents, so everything is loaded into memory once.
func (v *Validator) Run(ctx context.Context) (*Report, error) {
	lists, err := v.store.AllLists(ctx)
	if err != nil {
		return nil, fmt.Errorf("load lists: %w", err)
	}
	dhammas, err := v.store.AllDhammas(ctx)
	if err != nil {
		return nil, fmt.Errorf("load dhammas: %w", err)
	}

	g := newIndexedGraph(lists, dhammas)
	report := &Report{}

	v.checkPopulated(g, report)
	v.checkChildrenRefs(g, report)
	v.checkParents(g, report)
	v.checkBidirectional(g, report)
	v.checkEdgeTargets(g, report)
	v.checkContainmentVsZoom(g, report)
	v.checkNoCycles(g, report)
	v.checkItemCounts(g, report)
	v.checkSlugUniqueness(g, report)
	v.checkEssayCoverage(g, report)

	report.finish()
	for _, c := range report.Checks {
		v.logger.Info("Integrity check",
			zap.String("check", c.Name),
			zap.Bool("passed", c.Passed),
			zap.String("detail", c.Detail),
		)
	}
	return report, nil
}

// indexedGraph is the in-memory view the checks operate on.
type indexedGraph struct {
	lists      []*graph.List
	dhammas    []*graph.Dhamma
	listByID   map[string]*graph.List
	dhammaByID map[string]*graph.Dhamma
}

func newIndexedGraph(lists []*graph.List, dhammas []*graph.Dhamma) *indexedGraph {
	g := &indexedGraph{
		lists:      lists,
		dhammas:    dhammas,
		listByID:   make(map[string]*graph.List, len(lists)),
		dhammaByID: make(map[string]*graph.Dhamma, len(dhammas)),
	}
	for _, l := range lists {
		g.listByID[l.ID] = l
	}
	for _, d := range dhammas {
		g.dhammaByID[d.ID] = d
	}
	return g
}

func (g *indexedGraph) nodeExists(id string) bool {
	if _, ok := g.listByID[id]; ok {
		return true
	}
	_, ok := g.dhammaByID[id]
	return ok
}

func (v *Validator) checkPopulated(g *indexedGraph, report *Report) {
	passed := len(g.lists) > 0 && len(g.dhammas) > 0
	report.add("graph_populated", passed,
		fmt.Sprintf("%d lists, %d dhammas", len(g.lists), len(g.dhammas)))
}

func (v *Validator) checkChildrenRefs(g *indexedGraph, report *Report) {
	var broken []string
	for _, l := range g.lists {
		for _, childID := range l.Children {
			if _, ok := g.dhammaByID[childID]; !ok {
				broken = append(broken, l.Slug)
			}
		}
	}
	report.add("children_refs_valid", len(broken) == 0, brokenDetail(broken))
}

func (v *Validator) checkParents(g *indexedGraph, report *Report) {
	var orphans []string
	for _, d := range g.dhammas {
		if d.ParentListID == "" {
			orphans = append(orphans, d.Slug)
			continue
		}
		if _, ok := g.listByID[d.ParentListID]; !ok {
			orphans = append(orphans, d.Slug)
		}
	}
	report.add("parents_resolve", len(orphans) == 0, brokenDetail(orphans))
}

func (v *Validator) checkBidirectional(g *indexedGraph, report *Report) {
	var inconsistent []string
	for _, d := range g.dhammas {
		parent, ok := g.listByID[d.ParentListID]
		if !ok {
			continue
		}
		found := false
		for _, childID := range parent.Children {
			if childID == d.ID {
				found = true
				break
			}
		}
		if !found {
			inconsistent = append(inconsistent, d.Slug)
		}
	}
	report.add("parent_child_bidirectional", len(inconsistent) == 0, brokenDetail(inconsistent))
}

func (v *Validator) checkEdgeTargets(g *indexedGraph, report *Report) {
	var broken []string
	for _, d := range g.dhammas {
		for _, ref := range d.Downstream {
			if !g.nodeExists(ref.RefID) {
				broken = append(broken, d.Slug+" downstream")
			}
		}
		for _, ref := range d.UpstreamFrom {
			if !g.nodeExists(ref.RefID) {
				broken = append(broken, d.Slug+" upstream")
			}
		}
		for _, ref := range d.CrossReferences {
			if _, ok := g.dhammaByID[ref.RefID]; !ok {
				broken = append(broken, d.Slug+" cross-reference")
			}
		}
	}
	for _, l := range g.lists {
		for _, ref := range l.UpstreamFrom {
			if !g.nodeExists(ref.RefID) {
				broken = append(broken, l.Slug+" upstream")
			}
		}
	}
	report.add("edge_targets_exist", len(broken) == 0, brokenDetail(broken))
}

// checkContainmentVsZoom enforces the critical rule: containment and zoom are
// disjoint relations, so a dhamma never has a list-kind zoom edge back to its
// own parent list.
func (v *Validator) checkContainmentVsZoom(g *indexedGraph, report *Report) {
	var violations []string
	for _, d := range g.dhammas {
		for _, ref := range d.Downstream {
			if ref.RefKind == graph.KindList && ref.RefID == d.ParentListID {
				violations = append(violations, d.Slug)
			}
		}
	}
	report.add("containment_not_zoom", len(violations) == 0, brokenDetail(violations))
}

// checkNoCycles walks zoom edges depth-first from every dhamma, descending
// through a target list's children and out through their zoom edges. The
// visited set is per path, not global: the same node legitimately appears on
// different paths, only repeating on one path is a cycle.
func (v *Validator) checkNoCycles(g *indexedGraph, report *Report) {
	var cyclic []string
	for _, d := range g.dhammas {
		if g.dhammaOnCycle(d.ID, map[string]bool{}) {
			cyclic = append(cyclic, d.Slug)
		}
	}
	report.add("no_zoom_cycles", len(cyclic) == 0, brokenDetail(cyclic))
}

func (g *indexedGraph) dhammaOnCycle(id string, visited map[string]bool) bool {
	if visited[id] {
		return true
	}
	visited[id] = true

	d, ok := g.dhammaByID[id]
	if !ok {
		return false
	}
	for _, ref := range d.Downstream {
		if ref.RefKind != graph.KindList {
			continue
		}
		list, ok := g.listByID[ref.RefID]
		if !ok {
			continue
		}
		for _, childID := range list.Children {
			branch := make(map[string]bool, len(visited))
			for k := range visited {
				branch[k] = true
			}
			if g.dhammaOnCycle(childID, branch) {
				return true
			}
		}
	}
	return false
}

func (v *Validator) checkItemCounts(g *indexedGraph, report *Report) {
	var mismatched []string
	for _, l := range g.lists {
		if l.ItemCount != len(l.Children) {
			mismatched = append(mismatched,
				fmt.Sprintf("%s: declared=%d actual=%d", l.Slug, l.ItemCount, len(l.Children)))
		}
	}
	report.add("item_counts_accurate", len(mismatched) == 0, brokenDetail(mismatched))
}

func (v *Validator) checkSlugUniqueness(g *indexedGraph, report *Report) {
	dupes := append(duplicateSlugs(listSlugs(g.lists)), duplicateSlugs(dhammaSlugs(g.dhammas))...)
	report.add("slugs_unique", len(dupes) == 0, brokenDetail(dupes))
}

// checkEssayCoverage reports how many dhammas carry essays. Informational:
// seeding is valid before essay generation has run.
func (v *Validator) checkEssayCoverage(g *indexedGraph, report *Report) {
	withEssays := 0
	for _, d := range g.dhammas {
		if d.Essay != "" {
			withEssays++
		}
	}
	total := len(g.dhammas)
	coverage := 0.0
	if total > 0 {
		coverage = float64(withEssays) / float64(total) * 100
	}
	report.addInformational("essay_coverage", withEssays == total,
		fmt.Sprintf("%d/%d (%.0f%%)", withEssays, total, coverage))
}

func listSlugs(lists []*graph.List) []string {
	out := make([]string, len(lists))
	for i, l := range lists {
		out[i] = l.Slug
	}
	return out
}

func dhammaSlugs(dhammas []*graph.Dhamma) []string {
	out := make([]string, len(dhammas))
	for i, d := range dhammas {
		out[i] = d.Slug
	}
	return out
}

func duplicateSlugs(slugs []string) []string {
	seen := make(map[string]int)
	for _, s := range slugs {
		seen[s]++
	}
	var dupes []string
	for s, n := range seen {
		if n > 1 {
			dupes = append(dupes, s)
		}
	}
	sort.Strings(dupes)
	return dupes
}

// brokenDetail formats up to five offenders for the check detail.
func brokenDetail(offenders []string) string {
	if len(offenders) == 0 {
		return ""
	}
	shown := offenders
	if len(shown) > 5 {
		shown = shown[:5]
	}
	return fmt.Sprintf("%d broken: %s", len(offenders), strings.Join(shown, ", "))
}
