// Package validation checks input and output paths before the pipeline
// touches them, so a bad invocation fails with a clear message instead of
// a mid-run storage error.
package validation

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	apperrors "wranglecli/internal/errors"
)

// FileValidator validates the file arguments of a run.
type FileValidator struct {
	logger *slog.Logger
}

// NewFileValidator creates a file validator.
func NewFileValidator(logger *slog.Logger) *FileValidator {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileValidator{logger: logger.With(slog.String("component", "validation"))}
}

// ValidateCSVFile checks that path names a readable, non-empty file with a
// delimited-text extension.
func (v *FileValidator) ValidateCSVFile(path string) error {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return apperrors.NewStorageError(fmt.Sprintf("input file %s does not exist", path), nil)
	}
	if err != nil {
		return apperrors.NewStorageError(fmt.Sprintf("failed to stat %s", path), err)
	}
	if info.IsDir() {
		return apperrors.NewValidationError(fmt.Sprintf("%s is a directory, not a file", path))
	}
	if info.Size() == 0 {
		return apperrors.NewValidationError(fmt.Sprintf("input file %s is empty", path))
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv", ".tsv", ".txt":
	default:
		v.logger.Warn("unexpected input extension",
			slog.String("path", path),
			slog.String("extension", filepath.Ext(path)))
	}
	return nil
}

// ValidateOutputPath checks that the output file can be created: its parent
// directory either exists and is writable, or can be created.
func (v *FileValidator) ValidateOutputPath(path string) error {
	dir := filepath.Dir(path)

	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return apperrors.NewStorageError(fmt.Sprintf("cannot create output directory %s", dir), err)
		}
		return nil
	}
	if err != nil {
		return apperrors.NewStorageError(fmt.Sprintf("failed to stat output directory %s", dir), err)
	}
	if !info.IsDir() {
		return apperrors.NewValidationError(fmt.Sprintf("output parent %s is not a directory", dir))
	}

	probe := filepath.Join(dir, ".wrangle_write_check")
	f, err := os.Create(probe)
	if err != nil {
		return apperrors.NewStorageError(fmt.Sprintf("output directory %s is not writable", dir), err)
	}
	f.Close()
	os.Remove(probe)
	return nil
}

// ValidateInputs validates every input path and returns the first problem.
func (v *FileValidator) ValidateInputs(paths []string) error {
	if len(paths) == 0 {
		return apperrors.NewEmptyInputError()
	}
	for _, p := range paths {
		if err := v.ValidateCSVFile(p); err != nil {
			return err
		}
	}
	return nil
}
