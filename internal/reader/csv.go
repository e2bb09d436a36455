// Package reader loads delimited text files into raw tables, handling
// encoding auto-detection and BOM stripping. It is the ingestion
// collaborator in front of the cleaning pipeline boundary.
package reader

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"

	"wranglecli/internal/config"
	apperrors "wranglecli/internal/errors"
	"wranglecli/internal/table"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Reader loads CSV files according to the cleaning options (delimiter and
// encoding settings).
type Reader struct {
	logger *slog.Logger
	opts   config.CleanOptions
}

// New creates a reader for the given options.
func New(logger *slog.Logger, opts config.CleanOptions) *Reader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Reader{
		logger: logger.With(slog.String("component", "reader")),
		opts:   opts,
	}
}

// ReadFile loads one CSV file into a raw string-typed table. The source
// identifier is the file name without its extension.
func (r *Reader) ReadFile(path string) (*table.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, apperrors.NewStorageError(fmt.Sprintf("failed to open %s", path), err)
	}
	defer f.Close()

	base := filepath.Base(path)
	source := strings.TrimSuffix(base, filepath.Ext(base))
	return r.Read(source, f)
}

// Read loads CSV data from rd into a raw table named by source.
func (r *Reader) Read(source string, rd io.Reader) (*table.Table, error) {
	data, err := io.ReadAll(rd)
	if err != nil {
		return nil, apperrors.NewStorageError(fmt.Sprintf("failed to read %s", source), err)
	}

	data, detected, err := r.decode(data)
	if err != nil {
		return nil, apperrors.NewParsingError(fmt.Sprintf("failed to decode %s", source), err)
	}

	cr := csv.NewReader(bytes.NewReader(data))
	cr.Comma = r.opts.DelimiterRune()
	cr.FieldsPerRecord = -1

	records, err := cr.ReadAll()
	if err != nil {
		return nil, apperrors.NewParsingError(fmt.Sprintf("failed to parse %s", source), err)
	}
	if len(records) == 0 {
		return nil, apperrors.NewParsingError(fmt.Sprintf("%s has no header row", source), nil)
	}

	t := table.FromRows(source, records[0], records[1:])

	r.logger.Info("file loaded",
		slog.String("source", source),
		slog.String("encoding", detected),
		slog.Int("rows", t.RowCount()),
		slog.Int("columns", t.ColumnCount()))

	return t, nil
}

// decode converts raw bytes to UTF-8 per the configured encoding, or by
// detection when the encoding is "auto": BOMs first, then UTF-8 validity,
// then a Windows-1252 fallback. The UTF-8 BOM is always stripped.
func (r *Reader) decode(data []byte) ([]byte, string, error) {
	name := strings.ToLower(r.opts.Encoding)
	if name == "" || name == "auto" {
		name = detectEncoding(data)
	}

	var dec *encoding.Decoder
	switch name {
	case "utf-8":
		return bytes.TrimPrefix(data, utf8BOM), name, nil
	case "utf-16":
		dec = unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewDecoder()
	case "windows-1252":
		dec = charmap.Windows1252.NewDecoder()
	case "latin-1":
		dec = charmap.ISO8859_1.NewDecoder()
	default:
		return nil, name, fmt.Errorf("unsupported encoding %q", name)
	}

	out, err := dec.Bytes(data)
	if err != nil {
		return nil, name, err
	}
	return bytes.TrimPrefix(out, utf8BOM), name, nil
}

// detectEncoding guesses the encoding of data. Invalid UTF-8 falls back to
// Windows-1252, which decodes any byte sequence.
func detectEncoding(data []byte) string {
	if len(data) >= 2 {
		if (data[0] == 0xFF && data[1] == 0xFE) || (data[0] == 0xFE && data[1] == 0xFF) {
			return "utf-16"
		}
	}
	if utf8.Valid(data) {
		return "utf-8"
	}
	return "windows-1252"
}
