// Package main provides the wrangle CLI: read delimited files, run the
// cleaning pipeline, export the merged spreadsheet and the quality report.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"wranglecli/internal/config"
	"wranglecli/internal/exporter"
	"wranglecli/internal/pipeline"
	"wranglecli/internal/reader"
	"wranglecli/internal/table"
	"wranglecli/internal/validation"
)

var (
	optionsPath string
	outputPath  string
	reportPath  string
	logLevel    string

	delimiter  string
	encoding   string
	mergeMode  string
	naPolicy   string
	fillValue  string
	dedupeKeys []string
	keepTime   bool
	noDedupe   bool
	noInfer    bool
	noTrim     bool
	noRename   bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "wrangle [input.csv...]",
		Short: "Clean and merge delimited files into a spreadsheet",
		Long: `wrangle ingests one or more delimited text files, applies the cleaning
pipeline (type inference, normalization, deduplication, missing-value
policy), merges the results and writes a spreadsheet plus a quality
report. The exit code is zero only when the run produced no warnings.`,
		Args: cobra.MinimumNArgs(1),
		RunE: run,
	}

	rootCmd.Flags().StringVarP(&optionsPath, "options", "c", "", "YAML file with cleaning options")
	rootCmd.Flags().StringVarP(&outputPath, "output", "o", "wrangled.xlsx", "Output spreadsheet path")
	rootCmd.Flags().StringVar(&reportPath, "report", "", "Report path without extension (default: output path)")
	rootCmd.Flags().StringVar(&logLevel, "log-level", "info", "Log level: debug, info, warn, error")

	rootCmd.Flags().StringVarP(&delimiter, "delimiter", "d", "", "Field delimiter (overrides options file)")
	rootCmd.Flags().StringVar(&encoding, "encoding", "", "Input encoding: auto, utf-8, utf-16, windows-1252, latin-1")
	rootCmd.Flags().StringVarP(&mergeMode, "merge", "m", "", "Merge mode: append, per_sheet")
	rootCmd.Flags().StringVar(&naPolicy, "na", "", "Missing value policy: drop, keep, fill")
	rootCmd.Flags().StringVar(&fillValue, "fill-value", "", "Fill value for the fill policy")
	rootCmd.Flags().StringSliceVar(&dedupeKeys, "key", nil, "Duplicate key columns (default: all columns)")
	rootCmd.Flags().BoolVar(&keepTime, "keep-time", false, "Preserve time-of-day in a separate column")
	rootCmd.Flags().BoolVar(&noDedupe, "no-dedupe", false, "Disable duplicate removal")
	rootCmd.Flags().BoolVar(&noInfer, "no-infer", false, "Disable type inference")
	rootCmd.Flags().BoolVar(&noTrim, "no-trim", false, "Disable whitespace trimming")
	rootCmd.Flags().BoolVar(&noRename, "no-rename", false, "Disable column name standardization")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: parseLevel(logLevel),
	}))
	slog.SetDefault(logger)

	opts, err := buildOptions()
	if err != nil {
		return err
	}

	validator := validation.NewFileValidator(logger)
	if err := validator.ValidateInputs(args); err != nil {
		return err
	}
	if err := validator.ValidateOutputPath(outputPath); err != nil {
		return err
	}

	p, err := pipeline.New(logger, opts)
	if err != nil {
		return err
	}

	rd := reader.New(logger, opts)
	tables := make([]*table.Table, 0, len(args))
	for _, path := range args {
		t, err := rd.ReadFile(path)
		if err != nil {
			return err
		}
		tables = append(tables, t)
	}

	ctx := context.Background()
	out, err := p.Run(ctx, tables)
	if err != nil {
		return err
	}

	if err := exporter.NewExcelWriter(logger).Write(outputPath, out.Merge); err != nil {
		return err
	}

	base := reportPath
	if base == "" {
		base = strings.TrimSuffix(outputPath, ".xlsx")
	}
	rw := exporter.NewReportWriter(logger)
	if err := rw.WriteText(base+"_report.txt", out.Report); err != nil {
		return err
	}
	if err := rw.WriteJSON(base+"_report.json", out.Report); err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), summaryLine(out))

	if !out.Report.Passed() {
		// Warnings are not fatal, but the caller gets a signal.
		cmd.SilenceUsage = true
		cmd.SilenceErrors = true
		return fmt.Errorf("completed with %d warning(s), see %s_report.txt", out.Report.Summary.WarningCount, base)
	}
	return nil
}

// buildOptions layers the flag overrides on top of the options file (or
// the defaults when no file is given).
func buildOptions() (config.CleanOptions, error) {
	opts := config.DefaultCleanOptions()
	if optionsPath != "" {
		loaded, err := config.LoadCleanOptions(optionsPath)
		if err != nil {
			return opts, err
		}
		opts = loaded
	}

	if delimiter != "" {
		opts.Delimiter = delimiter
	}
	if encoding != "" {
		opts.Encoding = encoding
	}
	if mergeMode != "" {
		opts.MergeMode = config.MergeMode(mergeMode)
	}
	if naPolicy != "" {
		opts.NAPolicy = config.NAPolicy(naPolicy)
	}
	if fillValue != "" {
		opts.FillValue = fillValue
	}
	if len(dedupeKeys) > 0 {
		opts.DuplicateKey = dedupeKeys
	}
	if keepTime {
		opts.KeepTime = true
	}
	if noDedupe {
		opts.RemoveDuplicates = false
		opts.DuplicateKey = nil
	}
	if noInfer {
		opts.InferTypes = false
	}
	if noTrim {
		opts.TrimWhitespace = false
	}
	if noRename {
		opts.StandardizeNames = false
	}

	return opts, opts.Validate()
}

func summaryLine(out *pipeline.Output) string {
	s := out.Report.Summary
	return fmt.Sprintf("wrangled %d file(s): %d rows, %d cells coerced, %d duplicates removed, %d warnings",
		s.TotalFiles, s.TotalRows, s.TotalCellsCoerced, s.TotalDuplicatesRemoved, s.WarningCount)
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
