// Package observability provides console output for the harvester: summary boxes,
// structured logging and progress bars.
package observability

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/jonathan/pmc-harvester/internal/types"
)

const (
	// minBoxWidth is the narrowest formatted output box
	minBoxWidth = 60
	// maxBoxWidth keeps boxes readable on narrow terminals
	maxBoxWidth = 120
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for the CLI commands
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content, sized to fit the
// longest line up to maxBoxWidth.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	lines := strings.Split(content, "\n")

	inner := utf8.RuneCountInString(title)
	for _, line := range lines {
		inner = max(inner, utf8.RuneCountInString(line))
	}
	inner = min(max(inner, minBoxWidth-4), maxBoxWidth-4)

	border := strings.Repeat("─", inner+2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", inner, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range lines {
		// Truncate long lines
		if utf8.RuneCountInString(line) > inner {
			line = string([]rune(line)[:inner-3]) + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", inner, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintRunSummary outputs the end-of-run counts for one language.
// With verbose set, failed URLs are listed with their last error.
func (p *Printer) PrintRunSummary(s *types.RunSummary, verbose bool) {
	if s == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Total links: %d\n", s.Total))
	sb.WriteString(fmt.Sprintf("Successes:   %d (see %s)\n", s.Succeeded, s.SuccessLog))
	sb.WriteString(fmt.Sprintf("Failures:    %d (see %s)\n", s.Failed, s.FailureLog))
	sb.WriteString(fmt.Sprintf("Records written: %d, duplicates skipped: %d", s.Written, s.Duplicates))

	if verbose {
		var failed []types.URLOutcome
		for _, o := range s.Outcomes {
			if o.State == types.URLStateFailed {
				failed = append(failed, o)
			}
		}
		if len(failed) > 0 {
			sb.WriteString("\n\nFailed links:\n")
			count := min(len(failed), maxItemsToShow)
			for i := 0; i < count; i++ {
				sb.WriteString(fmt.Sprintf("  • %s\n", failed[i].URL))
				if failed[i].Error != "" {
					sb.WriteString(fmt.Sprintf("    %s\n", failed[i].Error))
				}
			}
			if len(failed) > maxItemsToShow {
				sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(failed)-maxItemsToShow))
			}
		}
	}

	p.printBox(fmt.Sprintf("SUMMARY FOR %s LINKS", strings.ToUpper(string(s.Lang))), strings.TrimSuffix(sb.String(), "\n"))
}

// PrintStats outputs record counts per output file.
func (p *Printer) PrintStats(stats []types.OutputStats) {
	if len(stats) == 0 {
		return
	}

	var sb strings.Builder
	for i, st := range stats {
		sb.WriteString(fmt.Sprintf("[%s] %s\n", st.Lang, st.Path))
		if !st.Exists {
			sb.WriteString("  (no output yet)\n")
		} else {
			sb.WriteString(fmt.Sprintf("  Lines: %d  Records: %d  Unreadable: %d\n", st.Lines, st.Records, st.Skipped))
			if dup := st.Lines - st.Skipped - st.Records; dup > 0 {
				sb.WriteString(fmt.Sprintf("  Duplicate lines: %d\n", dup))
			}
		}
		if i < len(stats)-1 {
			sb.WriteString("\n")
		}
	}

	p.printBox("OUTPUT STATS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintVerifyReport outputs the schema check result for one output file.
func (p *Printer) PrintVerifyReport(r *types.VerifyReport) {
	if r == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("File:  %s\n", r.Path))
	sb.WriteString(fmt.Sprintf("Lines: %d\n", r.Lines))
	if r.Valid() {
		sb.WriteString("✓ all lines match the record schema")
	} else {
		sb.WriteString(fmt.Sprintf("✗ %d invalid line(s):\n", len(r.Invalid)))
		count := min(len(r.Invalid), maxItemsToShow)
		for i := 0; i < count; i++ {
			le := r.Invalid[i]
			sb.WriteString(fmt.Sprintf("  line %d: %s\n", le.Line, strings.Join(le.Problems, "; ")))
		}
		if len(r.Invalid) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more", len(r.Invalid)-maxItemsToShow))
		}
	}

	p.printBox(fmt.Sprintf("VERIFY %s OUTPUT", strings.ToUpper(string(r.Lang))), strings.TrimSuffix(sb.String(), "\n"))
}
