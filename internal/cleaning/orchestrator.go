package cleaning

import (
	"context"
	"log/slog"

	"wranglecli/internal/config"
	apperrors "wranglecli/internal/errors"
	"wranglecli/internal/table"
)

// Orchestrator runs the cleaning steps for one table in a fixed order:
// column cleaning (trim, standardize, infer, coerce, normalize dates), then
// missing-value resolution, then duplicate removal. Cleaning is a pure
// function of (raw table, options); the input table is never mutated.
type Orchestrator struct {
	logger *slog.Logger
	opts   config.CleanOptions
}

// NewOrchestrator creates an orchestrator for the given options.
func NewOrchestrator(logger *slog.Logger, opts config.CleanOptions) *Orchestrator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Orchestrator{
		logger: logger.With(slog.String("component", "cleaning")),
		opts:   opts,
	}
}

// Clean produces the cleaned copy of raw plus the diagnostic record of
// every change. Recoverable conditions become warnings on the diagnostic;
// only a structurally broken input table yields an error.
func (o *Orchestrator) Clean(ctx context.Context, raw *table.Table) (*table.Table, *Diagnostic, error) {
	if err := raw.Validate(); err != nil {
		return nil, nil, apperrors.NewValidationError(err.Error())
	}

	diag := &Diagnostic{
		Source:          raw.Source,
		OriginalRows:    raw.RowCount(),
		OriginalColumns: raw.ColumnCount(),
	}

	t := raw.Clone()

	CleanColumns(t, o.opts, diag)

	// Column references in the options follow the same standardization as
	// the headers, so keys configured against raw names keep resolving.
	opts := o.opts
	if opts.StandardizeNames {
		opts.NAExemptColumns = standardizeRefs(opts.NAExemptColumns)
		opts.DuplicateKey = standardizeRefs(opts.DuplicateKey)
	}
	opts.DuplicateKey = resolveKey(t, opts.DuplicateKey, diag)

	ResolveNA(t, opts, diag)
	if opts.RemoveDuplicates {
		Deduplicate(t, opts.DuplicateKey, diag)
	}

	diag.FinalRows = t.RowCount()
	diag.FinalColumns = t.ColumnCount()

	o.logger.InfoContext(ctx, "table cleaned",
		slog.String("source", t.Source),
		slog.Int("rows_in", diag.OriginalRows),
		slog.Int("rows_out", diag.FinalRows),
		slog.Int("cells_coerced", diag.CellsCoerced),
		slog.Int("duplicates_removed", diag.RowsDroppedDuplicates),
		slog.Int("na_rows_dropped", diag.RowsDroppedNA),
		slog.Int("warnings", len(diag.Warnings)))

	return t, diag, nil
}

// standardizeRefs applies the column name standardization to configured
// column references.
func standardizeRefs(names []string) []string {
	if len(names) == 0 {
		return nil
	}
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = standardizeName(n)
	}
	return out
}

// resolveKey drops dedupe key columns the table does not have, warning for
// each. An empty result falls back to all columns inside Deduplicate.
func resolveKey(t *table.Table, key []string, diag *Diagnostic) []string {
	if len(key) == 0 {
		return nil
	}
	resolved := make([]string, 0, len(key))
	for _, name := range key {
		if t.Column(name) == nil {
			diag.AddWarning(WarnCodeParse, name, "duplicate key column not present in table, ignored")
			continue
		}
		resolved = append(resolved, name)
	}
	return resolved
}
