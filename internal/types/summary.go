//nolint:revive // types is a standard Go package name pattern
package types

// URLState is the lifecycle of a single input URL within one run.
type URLState string

const (
	URLStatePending    URLState = "pending"
	URLStateAttempting URLState = "attempting"
	URLStateSucceeded  URLState = "succeeded"
	URLStateFailed     URLState = "failed"
)

// IsTerminal reports whether no further transitions are possible.
func (s URLState) IsTerminal() bool {
	return s == URLStateSucceeded || s == URLStateFailed
}

// URLOutcome records how one input URL ended.
type URLOutcome struct {
	URL        string   `json:"url"`
	State      URLState `json:"state"`
	Attempts   int      `json:"attempts"`
	Written    int      `json:"written"`    // records appended for this URL
	Duplicates int      `json:"duplicates"` // records skipped as already known
	Error      string   `json:"error,omitempty"`
}

// RunSummary aggregates one language's run.
type RunSummary struct {
	RunID      string       `json:"run_id"`
	Lang       Lang         `json:"lang"`
	Total      int          `json:"total"`
	Succeeded  int          `json:"succeeded"`
	Failed     int          `json:"failed"`
	Written    int          `json:"written"`
	Duplicates int          `json:"duplicates"`
	SuccessLog string       `json:"success_log"`
	FailureLog string       `json:"failure_log"`
	Outcomes   []URLOutcome `json:"outcomes,omitempty"`
}

// Record adds a terminal outcome to the summary counters.
func (s *RunSummary) Record(o URLOutcome) {
	s.Outcomes = append(s.Outcomes, o)
	s.Written += o.Written
	s.Duplicates += o.Duplicates
	switch o.State {
	case URLStateSucceeded:
		s.Succeeded++
	case URLStateFailed:
		s.Failed++
	}
}

// OutputStats describes the contents of one output file.
type OutputStats struct {
	Lang    Lang   `json:"lang"`
	Path    string `json:"path"`
	Exists  bool   `json:"exists"`
	Lines   int    `json:"lines"`   // non-blank lines
	Records int    `json:"records"` // distinct content hashes
	Skipped int    `json:"skipped"` // lines that could not be indexed
}

// LineError lists the problems found on one line of an output file.
type LineError struct {
	Line     int      `json:"line"`
	Problems []string `json:"problems"`
}

// VerifyReport is the result of checking an output file against the record schema.
type VerifyReport struct {
	Lang    Lang        `json:"lang"`
	Path    string      `json:"path"`
	Lines   int         `json:"lines"`
	Invalid []LineError `json:"invalid,omitempty"`
}

// Valid reports whether every line passed.
func (r *VerifyReport) Valid() bool {
	return len(r.Invalid) == 0
}
