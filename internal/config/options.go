// Package config holds the cleaning configuration record and the server
// configuration. Every option of the pipeline is enumerated explicitly and
// validated before a run starts; contradictory combinations are rejected
// up front rather than surfacing mid-pipeline.
package config

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v2"

	apperrors "wranglecli/internal/errors"
)

// NAPolicy selects how missing values are resolved.
type NAPolicy string

const (
	NADrop NAPolicy = "drop"
	NAKeep NAPolicy = "keep"
	NAFill NAPolicy = "fill"
)

// MergeMode selects how cleaned tables are combined.
type MergeMode string

const (
	MergeAppend   MergeMode = "append"
	MergePerSheet MergeMode = "per_sheet"
)

// CleanOptions is the immutable cleaning configuration. Construct with
// DefaultCleanOptions and validate with Validate before handing it to the
// pipeline; the pipeline never mutates it.
type CleanOptions struct {
	// Input parsing.
	Delimiter          string `yaml:"delimiter" json:"delimiter" validate:"required,len=1"`
	DecimalSeparator   string `yaml:"decimal_separator" json:"decimal_separator" validate:"required,len=1"`
	ThousandsSeparator string `yaml:"thousands_separator" json:"thousands_separator" validate:"omitempty,len=1"`
	Encoding           string `yaml:"encoding" json:"encoding" validate:"oneof=auto utf-8 utf-16 windows-1252 latin-1"`

	// Cleaning switches.
	StandardizeNames bool `yaml:"standardize_names" json:"standardize_names"`
	InferTypes       bool `yaml:"infer_types" json:"infer_types"`
	TrimWhitespace   bool `yaml:"trim_whitespace" json:"trim_whitespace"`

	// Type inference acceptance threshold: the fraction of non-missing
	// values that must parse for a candidate type to win.
	TypeThreshold float64 `yaml:"type_threshold" json:"type_threshold" validate:"gt=0,lte=1"`

	// Missing value policy.
	NAPolicy  NAPolicy `yaml:"na_policy" json:"na_policy" validate:"oneof=drop keep fill"`
	FillValue string   `yaml:"fill_value" json:"fill_value"`
	// Columns exempt from the drop policy's row removal.
	NAExemptColumns []string `yaml:"na_exempt_columns" json:"na_exempt_columns"`

	// Date handling.
	EnforceDateFormat bool `yaml:"enforce_date_format" json:"enforce_date_format"`
	// KeepTime preserves a time-of-day component in a separate suffix
	// column; otherwise it is discarded during normalization.
	KeepTime bool `yaml:"keep_time" json:"keep_time"`

	// Deduplication.
	RemoveDuplicates bool     `yaml:"remove_duplicates" json:"remove_duplicates"`
	DuplicateKey     []string `yaml:"duplicate_key" json:"duplicate_key"`

	// Merge.
	MergeMode MergeMode `yaml:"merge_mode" json:"merge_mode" validate:"oneof=append per_sheet"`
}

// DefaultCleanOptions returns the default cleaning configuration.
func DefaultCleanOptions() CleanOptions {
	return CleanOptions{
		Delimiter:         ",",
		DecimalSeparator:  ".",
		Encoding:          "auto",
		StandardizeNames:  true,
		InferTypes:        true,
		TrimWhitespace:    true,
		TypeThreshold:     0.95,
		NAPolicy:          NAKeep,
		EnforceDateFormat: true,
		RemoveDuplicates:  true,
		MergeMode:         MergeAppend,
	}
}

var validate = validator.New()

// Validate checks field constraints and cross-field consistency. It returns
// a configuration error describing the first violation found.
func (o CleanOptions) Validate() error {
	if err := validate.Struct(o); err != nil {
		return apperrors.NewConfigError("invalid cleaning options", err)
	}
	if o.Delimiter == o.DecimalSeparator {
		return apperrors.NewConfigError(
			fmt.Sprintf("delimiter %q conflicts with decimal separator", o.Delimiter), nil)
	}
	if o.ThousandsSeparator != "" && o.ThousandsSeparator == o.DecimalSeparator {
		return apperrors.NewConfigError(
			fmt.Sprintf("thousands separator %q conflicts with decimal separator", o.ThousandsSeparator), nil)
	}
	if o.NAPolicy == NAFill && o.FillValue == "" {
		return apperrors.NewConfigError("na_policy fill requires a fill_value", nil)
	}
	if o.NAPolicy != NADrop && len(o.NAExemptColumns) > 0 {
		return apperrors.NewConfigError("na_exempt_columns only applies to the drop policy", nil)
	}
	if !o.RemoveDuplicates && len(o.DuplicateKey) > 0 {
		return apperrors.NewConfigError("duplicate_key set but duplicate removal is disabled", nil)
	}
	return nil
}

// LoadCleanOptions reads cleaning options from a YAML file, starting from
// the defaults so omitted fields keep their default values.
func LoadCleanOptions(path string) (CleanOptions, error) {
	opts := DefaultCleanOptions()

	data, err := os.ReadFile(path)
	if err != nil {
		return opts, apperrors.NewStorageError(fmt.Sprintf("failed to read options file %s", path), err)
	}
	if err := yaml.UnmarshalStrict(data, &opts); err != nil {
		return opts, apperrors.NewConfigError(fmt.Sprintf("failed to parse options file %s", path), err)
	}
	if err := opts.Validate(); err != nil {
		return opts, err
	}
	return opts, nil
}

// DelimiterRune returns the configured delimiter as a rune.
func (o CleanOptions) DelimiterRune() rune {
	for _, r := range o.Delimiter {
		return r
	}
	return ','
}
