package pipeline

import (
	"go.uber.org/zap"

	"dhammakb/domain/graph"
)

// downstreamOverride replaces one over-broad inferred zoom edge with a
// curated subset. The co-occurrence inferencer links a Three Trainings member
// to the entire Noble Eightfold Path because their rows align, but each
// training governs only its own factors.
type downstreamOverride struct {
	dhamma   string
	replaces string   // list slug whose zoom edge is removed
	targets  []string // dhamma slugs wired instead
}

var downstreamOverrides = []downstreamOverride{
	{
		dhamma:   "ethics",
		replaces: "noble-eightfold-path",
		targets:  []string{"right-speech", "right-action", "right-livelihood"},
	},
	{
		dhamma:   "concentration",
		replaces: "noble-eightfold-path",
		targets:  []string{"right-effort", "right-mindfulness", "right-concentration"},
	},
	{
		dhamma:   "wisdom",
		replaces: "noble-eightfold-path",
		targets:  []string{"right-view", "right-intention"},
	},
}

// applyCorrections rewires the curated overrides after merging. It removes
// the named list-kind zoom edge (and its inverse upstream edge), then wires
// dhamma-kind zoom edges to the correct subset.
func applyCorrections(set *DraftSet, logger *zap.Logger) {
	applied := 0
	for _, ov := range downstreamOverrides {
		d := set.Dhamma(ov.dhamma)
		if d == nil {
			continue
		}

		// Drop the over-broad list edge.
		kept := d.Downstream[:0]
		for _, ref := range d.Downstream {
			if ref.RefKind == graph.KindList && ref.RefSlug == ov.replaces {
				continue
			}
			kept = append(kept, ref)
		}
		d.Downstream = kept

		if list := set.List(ov.replaces); list != nil {
			keptUp := list.UpstreamFrom[:0]
			for _, ref := range list.UpstreamFrom {
				if ref.RefKind == graph.KindDhamma && ref.RefSlug == ov.dhamma {
					continue
				}
				keptUp = append(keptUp, ref)
			}
			list.UpstreamFrom = keptUp
		}

		// Wire the curated subset as dhamma-kind zoom edges.
		for _, targetSlug := range ov.targets {
			target := set.Dhamma(targetSlug)
			if target == nil {
				continue
			}
			down := graph.SlugRef{
				RefSlug: targetSlug,
				RefKind: graph.KindDhamma,
				Note:    "Expands into " + target.Name,
			}
			if !graph.HasRef(d.Downstream, down) {
				d.Downstream = append(d.Downstream, down)
			}
			up := graph.SlugRef{
				RefSlug: ov.dhamma,
				RefKind: graph.KindDhamma,
				Note:    "Zooms in from " + d.Name,
			}
			if !graph.HasRef(target.UpstreamFrom, up) {
				target.UpstreamFrom = append(target.UpstreamFrom, up)
			}
		}
		applied++
	}

	logger.Info("Applied downstream corrections", zap.Int("overrides", applied))
}
