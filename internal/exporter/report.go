package exporter

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	apperrors "wranglecli/internal/errors"
	"wranglecli/internal/report"
)

// ReportWriter persists quality reports as formatted text and JSON.
type ReportWriter struct {
	logger *slog.Logger
}

// NewReportWriter creates a report writer.
func NewReportWriter(logger *slog.Logger) *ReportWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &ReportWriter{logger: logger.With(slog.String("component", "exporter"))}
}

// reportEnvelope wraps the pure report with persistence metadata. The
// report computation itself stays deterministic; the id and timestamp are
// stamped here.
type reportEnvelope struct {
	ReportID    string         `json:"report_id"`
	GeneratedAt string         `json:"generated_at"`
	Format      string         `json:"format"`
	Report      *report.Report `json:"report"`
}

// WriteText saves the human-readable rendering of the report.
func (w *ReportWriter) WriteText(path string, r *report.Report) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return apperrors.NewStorageError("failed to create report directory", err)
	}
	if err := os.WriteFile(path, []byte(report.FormatText(r)), 0644); err != nil {
		return apperrors.NewStorageError("failed to write text report", err)
	}
	w.logger.Info("text report written", slog.String("path", path))
	return nil
}

// WriteJSON saves the machine-readable report with an id and timestamp.
func (w *ReportWriter) WriteJSON(path string, r *report.Report) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return apperrors.NewStorageError("failed to create report directory", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return apperrors.NewStorageError("failed to create JSON report", err)
	}
	defer file.Close()

	envelope := reportEnvelope{
		ReportID:    uuid.NewString(),
		GeneratedAt: time.Now().Format(time.RFC3339),
		Format:      "quality_report_v1",
		Report:      r,
	}

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(envelope); err != nil {
		return apperrors.NewStorageError("failed to encode JSON report", err)
	}

	w.logger.Info("json report written", slog.String("path", path))
	return nil
}
