// Package extraction turns fetched JSON values into records by cleaning them and
// scanning their serialized text for PDF links, phone numbers and map links.
package extraction

import (
	"fmt"

	"github.com/jonathan/pmc-harvester/internal/cleaning"
	"github.com/jonathan/pmc-harvester/internal/types"
)

// ExtractionError represents a failure to serialize a value for scanning.
type ExtractionError struct {
	Message string
	Cause   error
}

func (e *ExtractionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("extraction error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("extraction error: %s", e.Message)
}

func (e *ExtractionError) Unwrap() error {
	return e.Cause
}

// Extractor builds records using a fixed pattern set.
type Extractor struct {
	patterns Patterns
}

// New creates an Extractor for the given patterns.
func New(patterns Patterns) *Extractor {
	return &Extractor{patterns: patterns}
}

var defaultExtractor = New(DefaultPatterns())

// Extract cleans raw and scans it with the default patterns.
func Extract(raw any) (*types.Record, error) {
	return defaultExtractor.Extract(raw)
}

// Extract cleans raw, serializes it with types.CanonicalJSON and collects the
// distinct matches of each pattern. The returned record carries the cleaned
// value as Raw; SourceURL and Lang are left for the caller to stamp.
func (e *Extractor) Extract(raw any) (*types.Record, error) {
	cleaned := cleaning.Clean(raw)

	text, err := types.CanonicalJSON(cleaned)
	if err != nil {
		return nil, &ExtractionError{
			Message: "failed to serialize cleaned value",
			Cause:   err,
		}
	}

	m := e.patterns.Scan(string(text))
	return &types.Record{
		PDFLinks:     m.PDFLinks,
		PhoneNumbers: m.PhoneNumbers,
		MapLinks:     m.MapLinks,
		Raw:          cleaned,
	}, nil
}
