// Package pipeline wires the cleaning, merge and reporting stages into the
// single entry point used by the shells. Per-table cleaning fans out across
// workers since each table's cleaning is a pure function of (raw table,
// options); the merge engine is the synchronization point.
package pipeline

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"wranglecli/internal/cleaning"
	"wranglecli/internal/config"
	apperrors "wranglecli/internal/errors"
	"wranglecli/internal/merge"
	"wranglecli/internal/report"
	"wranglecli/internal/table"
)

// Output is everything a run produces: the cleaned tables with their
// diagnostics, the merge result and the quality report.
type Output struct {
	Cleaned     []*table.Table
	Diagnostics []*cleaning.Diagnostic
	Merge       *merge.Result
	Report      *report.Report
}

// Pipeline runs the full cleaning and merge flow for one configuration.
type Pipeline struct {
	logger *slog.Logger
	opts   config.CleanOptions
	orch   *cleaning.Orchestrator
	engine *merge.Engine
}

// New validates the options and builds a pipeline. An invalid configuration
// is rejected here, before any table is touched.
func New(logger *slog.Logger, opts config.CleanOptions) (*Pipeline, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		logger: logger.With(slog.String("component", "pipeline")),
		opts:   opts,
		orch:   cleaning.NewOrchestrator(logger, opts),
		engine: merge.NewEngine(logger),
	}, nil
}

// Run cleans every input table, merges the results and computes the
// quality report. Recoverable conditions surface as warnings inside the
// report; Run fails only for structurally impossible requests.
func (p *Pipeline) Run(ctx context.Context, tables []*table.Table) (*Output, error) {
	if len(tables) == 0 {
		return nil, apperrors.NewEmptyInputError()
	}

	cleaned := make([]*table.Table, len(tables))
	diags := make([]*cleaning.Diagnostic, len(tables))

	g, gctx := errgroup.WithContext(ctx)
	for i, raw := range tables {
		i, raw := i, raw
		g.Go(func() error {
			t, diag, err := p.orch.Clean(gctx, raw)
			if err != nil {
				return err
			}
			cleaned[i] = t
			diags[i] = diag
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	result, err := p.engine.Merge(ctx, cleaned, p.opts.MergeMode)
	if err != nil {
		return nil, err
	}

	rep := report.Build(diags, cleaned, result)

	p.logger.InfoContext(ctx, "pipeline run complete",
		slog.Int("tables", len(tables)),
		slog.String("merge_mode", string(p.opts.MergeMode)),
		slog.Int("warnings", rep.Summary.WarningCount),
		slog.Bool("passed", rep.Passed()))

	return &Output{
		Cleaned:     cleaned,
		Diagnostics: diags,
		Merge:       result,
		Report:      rep,
	}, nil
}
