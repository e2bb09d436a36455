package cleaning

import (
	"strings"

	"wranglecli/internal/config"
	"wranglecli/internal/table"
)

// Inference is the outcome of type inference for one column.
type Inference struct {
	Type table.LogicalType
	// FailedRows lists the indices of non-missing values that do not parse
	// under the inferred type. They become coercion warnings, never errors.
	FailedRows []int
	// PreferDMY records the resolved slash-date order for date columns.
	PreferDMY bool
}

// InferColumn examines a column's raw string values and decides its logical
// type. Candidates are tried in priority order (boolean, integer, float,
// date); a candidate is accepted when the fraction of parseable non-missing
// values meets the threshold. If nothing qualifies the column stays string.
// Inference never fails.
func InferColumn(cells []table.Value, opts config.CleanOptions) Inference {
	values := make([]string, len(cells))
	present := make([]bool, len(cells))
	total := 0
	for i, c := range cells {
		if c.IsMissing() {
			continue
		}
		s, _ := c.AsString()
		if c.Kind() != table.KindString {
			s = c.String()
		}
		if strings.TrimSpace(s) == "" {
			// Whitespace-only cells count as missing for inference.
			continue
		}
		values[i] = s
		present[i] = true
		total++
	}
	if total == 0 {
		return Inference{Type: table.TypeString}
	}

	threshold := opts.TypeThreshold
	accept := func(hits int) bool {
		return float64(hits) >= threshold*float64(total)
	}

	// Boolean: requires at least one non-numeric literal so binary 0/1
	// flag columns stay integer.
	hits, nonNumeric := 0, false
	var failed []int
	for i := range cells {
		if !present[i] {
			continue
		}
		if _, ok := parseBool(values[i]); ok {
			hits++
			if _, numeric := numericBoolLiterals[strings.ToLower(values[i])]; !numeric {
				nonNumeric = true
			}
		} else {
			failed = append(failed, i)
		}
	}
	if nonNumeric && accept(hits) {
		return Inference{Type: table.TypeBoolean, FailedRows: failed}
	}

	// Integer. A single value carrying a decimal or thousands separator
	// disqualifies the whole column, sending it to the float candidate.
	hits, sep := 0, false
	failed = nil
	for i := range cells {
		if !present[i] {
			continue
		}
		if _, ok := parseInt(values[i], opts); ok {
			hits++
		} else {
			failed = append(failed, i)
			if hasSeparator(values[i], opts) {
				sep = true
			}
		}
	}
	if !sep && accept(hits) {
		return Inference{Type: table.TypeInteger, FailedRows: failed}
	}

	// Float.
	hits, failed = 0, nil
	for i := range cells {
		if !present[i] {
			continue
		}
		if _, ok := parseFloat(values[i], opts); ok {
			hits++
		} else {
			failed = append(failed, i)
		}
	}
	if accept(hits) {
		return Inference{Type: table.TypeFloat, FailedRows: failed}
	}

	// Date: resolve the ambiguous slash order by majority vote first,
	// defaulting to MM/DD/YYYY on a tie or no evidence.
	vote := 0
	for i := range cells {
		if present[i] {
			vote += slashVote(values[i])
		}
	}
	preferDMY := vote < 0

	hits, failed = 0, nil
	for i := range cells {
		if !present[i] {
			continue
		}
		if _, _, ok := parseDate(values[i], preferDMY); ok {
			hits++
		} else {
			failed = append(failed, i)
		}
	}
	if accept(hits) {
		return Inference{Type: table.TypeDate, FailedRows: failed, PreferDMY: preferDMY}
	}

	return Inference{Type: table.TypeString}
}
