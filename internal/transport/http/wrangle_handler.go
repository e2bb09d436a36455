// Package http provides the HTTP handlers of the server shell. The
// pipeline boundary stays unchanged: handlers translate JSON requests into
// raw tables plus options, and pipeline output back into JSON.
package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"wranglecli/internal/config"
	apperrors "wranglecli/internal/errors"
	"wranglecli/internal/pipeline"
	"wranglecli/internal/table"
)

// RawTable is the wire form of an input table.
type RawTable struct {
	Source string     `json:"source"`
	Header []string   `json:"header"`
	Rows   [][]string `json:"rows"`
}

// WrangleRequest is the body of POST /api/wrangle. Omitted options fall
// back to the defaults.
type WrangleRequest struct {
	Options *config.CleanOptions `json:"options,omitempty"`
	Tables  []RawTable           `json:"tables"`
}

// ColumnMeta describes one column of a returned table.
type ColumnMeta struct {
	Name string            `json:"name"`
	Type table.LogicalType `json:"type"`
}

// TablePayload is the wire form of a cleaned or merged table. Cells render
// in canonical text form; null marks a missing cell.
type TablePayload struct {
	Source  string       `json:"source"`
	Columns []ColumnMeta `json:"columns"`
	Rows    [][]*string  `json:"rows"`
}

// WrangleResponse is the body returned by POST /api/wrangle.
type WrangleResponse struct {
	Passed bool            `json:"passed"`
	Report json.RawMessage `json:"report"`
	Merged *TablePayload   `json:"merged,omitempty"`
	Sheets []TablePayload  `json:"sheets,omitempty"`
}

// WrangleHandler runs the cleaning pipeline for submitted tables.
type WrangleHandler struct {
	logger       *slog.Logger
	errorHandler *apperrors.Handler
	maxBodyBytes int64
}

// NewWrangleHandler creates the wrangle handler.
func NewWrangleHandler(logger *slog.Logger, errorHandler *apperrors.Handler, maxBodyBytes int64) *WrangleHandler {
	return &WrangleHandler{
		logger:       logger.With(slog.String("component", "wrangle_handler")),
		errorHandler: errorHandler,
		maxBodyBytes: maxBodyBytes,
	}
}

// Routes returns the wrangle routes.
func (h *WrangleHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))
	r.Post("/", h.Run)
	return r
}

// Run handles POST /api/wrangle.
func (h *WrangleHandler) Run(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetReqID(r.Context())

	var req WrangleRequest
	body := http.MaxBytesReader(w, r.Body, h.maxBodyBytes)
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		h.errorHandler.HandleError(w, r, apperrors.NewValidationError("invalid request body"))
		return
	}

	opts := config.DefaultCleanOptions()
	if req.Options != nil {
		opts = *req.Options
	}

	p, err := pipeline.New(h.logger, opts)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	tables := make([]*table.Table, len(req.Tables))
	for i, raw := range req.Tables {
		tables[i] = table.FromRows(raw.Source, raw.Header, raw.Rows)
	}

	h.logger.InfoContext(r.Context(), "running pipeline",
		slog.String("request_id", reqID),
		slog.Int("tables", len(tables)),
		slog.String("merge_mode", string(opts.MergeMode)))

	out, err := p.Run(r.Context(), tables)
	if err != nil {
		observeRun("error", nil)
		h.errorHandler.HandleError(w, r, err)
		return
	}
	observeRun("ok", out)

	reportJSON, err := json.Marshal(out.Report)
	if err != nil {
		h.errorHandler.HandleError(w, r, apperrors.NewStorageError("failed to encode report", err))
		return
	}

	resp := WrangleResponse{
		Passed: out.Report.Passed(),
		Report: reportJSON,
	}
	if out.Merge.Combined != nil {
		p := tablePayload(out.Merge.Combined)
		resp.Merged = &p
	}
	for _, sheet := range out.Merge.Sheets {
		resp.Sheets = append(resp.Sheets, tablePayload(sheet))
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, resp)
}

func tablePayload(t *table.Table) TablePayload {
	p := TablePayload{Source: t.Source, Columns: make([]ColumnMeta, len(t.Columns))}
	for i, c := range t.Columns {
		p.Columns[i] = ColumnMeta{Name: c.Name, Type: c.Type}
	}
	rows := t.RowCount()
	p.Rows = make([][]*string, rows)
	for r := 0; r < rows; r++ {
		row := make([]*string, len(t.Columns))
		for c := range t.Columns {
			cell := t.Columns[c].Cells[r]
			if !cell.IsMissing() {
				s := cell.String()
				row[c] = &s
			}
		}
		p.Rows[r] = row
	}
	return p
}
