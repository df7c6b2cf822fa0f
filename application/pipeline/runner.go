package pipeline

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"dhammakb/application/ports"
)

// Runner drives the full seeding pipeline: parse both sheets, infer
// relationships, merge, correct, assign positions, materialize.
//
// The run is a single-threaded batch job. Two concurrent runs against the
// same store would interleave the destructive reset with inserts, so callers
// must serialize them.
type Runner struct {
	store  ports.GraphStore
	essays EssayLoader
	logger *zap.Logger
}

// NewRunner creates a Runner.
func NewRunner(store ports.GraphStore, essays EssayLoader, logger *zap.Logger) *Runner {
	return &Runner{store: store, essays: essays, logger: logger}
}

// BuildDrafts parses and links the workbook into a merged, position-assigned
// draft set, without touching storage. Shared by the seed run and the essay
// generator, which needs the dhamma inventory but no database.
func BuildDrafts(wb *Workbook, logger *zap.Logger) (*DraftSet, error) {
	nested, err := parseNestedSheet(wb.Nested, logger)
	if err != nil {
		return nil, fmt.Errorf("parse nested sheet: %w", err)
	}
	nested.detectColumnDownstream(logger)

	foundations := parseFoundationsSheet(wb.Foundations, logger)

	set := nested.set
	set.Merge(foundations)
	logger.Info("Merged sheets",
		zap.Int("lists", len(set.Lists())),
		zap.Int("dhammas", len(set.Dhammas())),
	)

	applyCorrections(set, logger)
	detectCrossReferences(set, logger)
	assignPositions(set)

	return set, nil
}

// Run executes the pipeline end to end against the workbook at path.
func (r *Runner) Run(ctx context.Context, path string) error {
	wb, err := LoadWorkbook(path)
	if err != nil {
		return err
	}

	set, err := BuildDrafts(wb, r.logger)
	if err != nil {
		return err
	}

	mat := NewMaterializer(r.store, r.essays, r.logger)
	if err := mat.Materialize(ctx, set); err != nil {
		return fmt.Errorf("materialize graph: %w", err)
	}

	r.logSummary(ctx)
	return nil
}

// logSummary reports post-seed statistics.
func (r *Runner) logSummary(ctx context.Context) {
	lists, err := r.store.AllLists(ctx)
	if err != nil {
		r.logger.Warn("Summary unavailable", zap.Error(err))
		return
	}
	dhammas, err := r.store.AllDhammas(ctx)
	if err != nil {
		r.logger.Warn("Summary unavailable", zap.Error(err))
		return
	}

	withEssays, withDownstream, withCrossRefs := 0, 0, 0
	for _, d := range dhammas {
		if d.Essay != "" {
			withEssays++
		}
		if len(d.Downstream) > 0 {
			withDownstream++
		}
		if len(d.CrossReferences) > 0 {
			withCrossRefs++
		}
	}
	roots := 0
	for _, l := range lists {
		if len(l.UpstreamFrom) == 0 {
			roots++
		}
	}

	r.logger.Info("Seed complete",
		zap.Int("lists", len(lists)),
		zap.Int("dhammas", len(dhammas)),
		zap.Int("withEssays", withEssays),
		zap.Int("withDownstream", withDownstream),
		zap.Int("withCrossRefs", withCrossRefs),
		zap.Int("rootLists", roots),
	)
}
