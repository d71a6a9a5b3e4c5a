// Package schemas provides JSON Schema validation for harvested output files.
package schemas

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/jonathan/pmc-harvester/internal/output"
	"github.com/jonathan/pmc-harvester/internal/types"
	embedded "github.com/jonathan/pmc-harvester/schemas"
)

// ValidationError represents a schema validation error with field paths
type ValidationError struct {
	Errors []FieldError
}

// FieldError represents a single validation error at a specific field
type FieldError struct {
	Field   string
	Message string
}

// SchemaLoadError represents errors loading or parsing the schema itself
type SchemaLoadError struct {
	Path    string
	Message string
	Cause   error
}

func (e *SchemaLoadError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("failed to load schema %s: %s: %v", e.Path, e.Message, e.Cause)
	}
	return fmt.Sprintf("failed to load schema %s: %s", e.Path, e.Message)
}

func (e *SchemaLoadError) Unwrap() error {
	return e.Cause
}

func (ve *ValidationError) Error() string {
	var sb strings.Builder
	sb.WriteString("validation failed:\n")
	for i, err := range ve.Errors {
		sb.WriteString(fmt.Sprintf("  %d. %s: %s\n", i+1, err.Field, err.Message))
	}
	return sb.String()
}

// Problems returns one "field: message" string per error.
func (ve *ValidationError) Problems() []string {
	problems := make([]string, 0, len(ve.Errors))
	for _, fe := range ve.Errors {
		problems = append(problems, fmt.Sprintf("%s: %s", fe.Field, fe.Message))
	}
	return problems
}

// resultError converts a failed result into a *ValidationError.
func resultError(result *gojsonschema.Result) error {
	if result.Valid() {
		return nil
	}

	validationErr := &ValidationError{
		Errors: make([]FieldError, 0, len(result.Errors())),
	}
	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == "" {
			field = "(root)"
		}
		validationErr.Errors = append(validationErr.Errors, FieldError{
			Field:   field,
			Message: desc.Description(),
		})
	}
	return validationErr
}

// RecordValidator checks output lines against the compiled record schema.
type RecordValidator struct {
	schema *gojsonschema.Schema
}

// NewRecordValidator compiles the embedded record schema.
func NewRecordValidator() (*RecordValidator, error) {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(embedded.Record))
	if err != nil {
		return nil, &SchemaLoadError{Path: "record.schema.json", Message: "failed to compile", Cause: err}
	}
	return &RecordValidator{schema: schema}, nil
}

// ValidateLine validates one JSON line. Lines that are not JSON at all are
// reported as a root-level ValidationError.
func (v *RecordValidator) ValidateLine(line []byte) error {
	result, err := v.schema.Validate(gojsonschema.NewBytesLoader(line))
	if err != nil {
		return &ValidationError{Errors: []FieldError{{Field: "(root)", Message: "invalid JSON: " + err.Error()}}}
	}
	return resultError(result)
}

// VerifyFile validates every non-blank line of the output file at path and
// additionally checks that each record's lang matches lang. A missing file
// yields an empty report.
func (v *RecordValidator) VerifyFile(path string, lang types.Lang) (*types.VerifyReport, error) {
	report := &types.VerifyReport{Lang: lang, Path: path}

	err := output.ScanLines(path, func(lineNo int, line []byte) error {
		report.Lines++

		var problems []string
		if err := v.ValidateLine(line); err != nil {
			var ve *ValidationError
			if !errors.As(err, &ve) {
				return err
			}
			problems = ve.Problems()
		} else if got := recordLang(line); got != lang {
			problems = []string{fmt.Sprintf("lang: %q does not match output language %q", got, lang)}
		}

		if len(problems) > 0 {
			report.Invalid = append(report.Invalid, types.LineError{Line: lineNo, Problems: problems})
		}
		return nil
	})
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to verify %s: %w", path, err)
	}
	return report, nil
}

// recordLang returns the lang field of a schema-valid line.
func recordLang(line []byte) types.Lang {
	v, err := types.DecodeJSON(line)
	if err != nil {
		return ""
	}
	obj, _ := v.(map[string]any)
	lang, _ := obj["lang"].(string)
	return types.Lang(lang)
}
