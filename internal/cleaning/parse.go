package cleaning

import (
	"strconv"
	"strings"
	"time"

	"wranglecli/internal/config"
)

// boolLiterals is the accepted boolean vocabulary, lower-cased.
var boolLiterals = map[string]bool{
	"true": true, "false": false,
	"1": true, "0": false,
	"yes": true, "no": false,
	"y": true, "n": false,
	"t": true, "f": false,
}

// numericBoolLiterals are the vocabulary entries that are also valid
// integers. A column made only of these stays numeric (see inference).
var numericBoolLiterals = map[string]struct{}{"1": {}, "0": {}}

func parseBool(v string) (bool, bool) {
	b, ok := boolLiterals[strings.ToLower(v)]
	return b, ok
}

// parseInt accepts plain signed integers only. Values carrying a decimal or
// thousands separator disqualify the column from the integer type.
func parseInt(v string, opts config.CleanOptions) (int64, bool) {
	if v == "" {
		return 0, false
	}
	if strings.Contains(v, opts.DecimalSeparator) {
		return 0, false
	}
	if opts.ThousandsSeparator != "" && strings.Contains(v, opts.ThousandsSeparator) {
		return 0, false
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// hasSeparator reports whether v contains the configured decimal or
// thousands separator. Any such value disqualifies the whole column from
// the integer type during inference.
func hasSeparator(v string, opts config.CleanOptions) bool {
	if strings.Contains(v, opts.DecimalSeparator) {
		return true
	}
	return opts.ThousandsSeparator != "" && strings.Contains(v, opts.ThousandsSeparator)
}

// parseFloat honors the configured decimal and thousands separators.
func parseFloat(v string, opts config.CleanOptions) (float64, bool) {
	if v == "" {
		return 0, false
	}
	if opts.ThousandsSeparator != "" {
		v = strings.ReplaceAll(v, opts.ThousandsSeparator, "")
	}
	if opts.DecimalSeparator != "." {
		if strings.Contains(v, ".") {
			return 0, false
		}
		v = strings.ReplaceAll(v, opts.DecimalSeparator, ".")
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// dateFormat pairs a layout with whether it uses the ambiguous slash order.
type dateFormat struct {
	layout    string
	withClock bool
}

var isoFormats = []dateFormat{
	{"2006-01-02 15:04:05", true},
	{"2006-01-02T15:04:05", true},
	{"2006-01-02 15:04", true},
	{"2006-01-02", false},
	{"2006/01/02 15:04:05", true},
	{"2006/01/02", false},
}

var mdyFormats = []dateFormat{
	{"01/02/2006 15:04:05", true},
	{"01/02/2006 15:04", true},
	{"01/02/2006", false},
}

var dmyFormats = []dateFormat{
	{"02/01/2006 15:04:05", true},
	{"02/01/2006 15:04", true},
	{"02/01/2006", false},
}

func tryFormats(v string, formats []dateFormat) (time.Time, bool, bool) {
	for _, f := range formats {
		if t, err := time.Parse(f.layout, v); err == nil {
			return t, f.withClock, true
		}
	}
	return time.Time{}, false, false
}

// parseDate parses v under the common formats. preferDMY selects which
// slash order is tried first; the alternate order is a fallback so values
// that are unambiguous under only one reading still parse.
func parseDate(v string, preferDMY bool) (time.Time, bool, bool) {
	if t, clock, ok := tryFormats(v, isoFormats); ok {
		return t, clock, ok
	}
	first, second := mdyFormats, dmyFormats
	if preferDMY {
		first, second = dmyFormats, mdyFormats
	}
	if t, clock, ok := tryFormats(v, first); ok {
		return t, clock, ok
	}
	return tryFormats(v, second)
}

// slashVote reports which slash order a value is compatible with:
// +1 when only MM/DD works, -1 when only DD/MM works, 0 when ambiguous
// or not a slash date.
func slashVote(v string) int {
	_, _, mdy := tryFormats(v, mdyFormats)
	_, _, dmy := tryFormats(v, dmyFormats)
	switch {
	case mdy && !dmy:
		return 1
	case dmy && !mdy:
		return -1
	default:
		return 0
	}
}
