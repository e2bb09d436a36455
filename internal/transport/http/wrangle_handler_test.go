package http

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wranglecli/internal/config"
	apperrors "wranglecli/internal/errors"
)

func newTestHandler(maxBody int64) *WrangleHandler {
	logger := slog.Default()
	return NewWrangleHandler(logger, apperrors.NewHandler(logger), maxBody)
}

func postWrangle(t *testing.T, h *WrangleHandler, body []byte) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.Routes().ServeHTTP(w, req)
	return w
}

func TestWrangleHandler_Run(t *testing.T) {
	reqBody, err := json.Marshal(WrangleRequest{
		Tables: []RawTable{
			{Source: "a", Header: []string{"id", "name"}, Rows: [][]string{{"1", "Al "}, {"2", "Bo"}}},
			{Source: "b", Header: []string{"id", "name", "age"}, Rows: [][]string{{"2", "Bo", "30"}}},
		},
	})
	require.NoError(t, err)

	w := postWrangle(t, newTestHandler(1<<20), reqBody)
	require.Equal(t, http.StatusOK, w.Code)

	var resp WrangleResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	assert.True(t, resp.Passed)
	require.NotNil(t, resp.Merged)
	assert.Empty(t, resp.Sheets)

	names := make([]string, len(resp.Merged.Columns))
	for i, c := range resp.Merged.Columns {
		names[i] = c.Name
	}
	assert.Equal(t, []string{"id", "name", "age", "source"}, names)

	require.Len(t, resp.Merged.Rows, 3)
	require.NotNil(t, resp.Merged.Rows[0][1])
	assert.Equal(t, "Al", *resp.Merged.Rows[0][1], "whitespace trimmed before merge")
	assert.Nil(t, resp.Merged.Rows[0][2], "missing age renders as null")
	require.NotNil(t, resp.Merged.Rows[2][2])
	assert.Equal(t, "30", *resp.Merged.Rows[2][2])

	var report struct {
		Summary struct {
			TotalFiles int `json:"total_files"`
		} `json:"summary"`
	}
	require.NoError(t, json.Unmarshal(resp.Report, &report))
	assert.Equal(t, 2, report.Summary.TotalFiles)
}

func TestWrangleHandler_Run_PerSheet(t *testing.T) {
	opts := config.DefaultCleanOptions()
	opts.MergeMode = config.MergePerSheet

	reqBody, err := json.Marshal(WrangleRequest{
		Options: &opts,
		Tables: []RawTable{
			{Source: "x", Header: []string{"id"}, Rows: [][]string{{"1"}}},
			{Source: "y", Header: []string{"city"}, Rows: [][]string{{"Basra"}}},
		},
	})
	require.NoError(t, err)

	w := postWrangle(t, newTestHandler(1<<20), reqBody)
	require.Equal(t, http.StatusOK, w.Code)

	var resp WrangleResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Nil(t, resp.Merged)
	require.Len(t, resp.Sheets, 2)
	assert.Equal(t, "x", resp.Sheets[0].Source)
	assert.Equal(t, "y", resp.Sheets[1].Source)
}

func TestWrangleHandler_Run_Errors(t *testing.T) {
	badOpts := config.DefaultCleanOptions()
	badOpts.Delimiter = "."

	invalidOptions, err := json.Marshal(WrangleRequest{
		Options: &badOpts,
		Tables:  []RawTable{{Source: "a", Header: []string{"id"}, Rows: [][]string{{"1"}}}},
	})
	require.NoError(t, err)

	noTables, err := json.Marshal(WrangleRequest{})
	require.NoError(t, err)

	tests := []struct {
		name       string
		body       []byte
		wantStatus int
		wantCode   string
	}{
		{"malformed json", []byte("{not json"), http.StatusBadRequest, "VALIDATION"},
		{"invalid options", invalidOptions, http.StatusBadRequest, "CONFIG"},
		{"no tables", noTables, http.StatusBadRequest, "EMPTY_INPUT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := postWrangle(t, newTestHandler(1<<20), tt.body)
			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.wantCode)
		})
	}
}

func TestWrangleHandler_Run_BodyLimit(t *testing.T) {
	big := WrangleRequest{Tables: []RawTable{{
		Source: "a",
		Header: []string{"v"},
		Rows:   [][]string{{strings.Repeat("x", 4096)}},
	}}}
	body, err := json.Marshal(big)
	require.NoError(t, err)

	w := postWrangle(t, newTestHandler(128), body)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHealthHandler_Get(t *testing.T) {
	h := NewHealthHandler("1.2.3")

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	h.Routes().ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, "1.2.3", body["version"])
	assert.Contains(t, body, "uptime")
}
