package extraction

import (
	"regexp"
	"sort"
)

// The scanned text is compact JSON, so URL bodies stop at quotes and escape backslashes.
const (
	pdfPattern   = `https?://[^\s"\\]+\.pdf`
	phonePattern = `(?:\+91[-\s]?|\b)0?[6789]\d{9}\b`
	mapPattern   = `https?://(?:goo\.gl|maps\.google\.com|www\.google\.com/maps)[^\s"\\]*`
)

// Patterns is the set of expressions scanned for in a serialized record.
type Patterns struct {
	PDF   *regexp.Regexp
	Phone *regexp.Regexp
	Map   *regexp.Regexp
}

// DefaultPatterns returns the PDF link, Indian mobile number and Google Maps link patterns.
func DefaultPatterns() Patterns {
	return Patterns{
		PDF:   regexp.MustCompile(pdfPattern),
		Phone: regexp.MustCompile(phonePattern),
		Map:   regexp.MustCompile(mapPattern),
	}
}

// Matches holds the distinct matches of each pattern, sorted.
type Matches struct {
	PDFLinks     []string
	PhoneNumbers []string
	MapLinks     []string
}

// Scan runs every pattern over text independently.
func (p Patterns) Scan(text string) Matches {
	return Matches{
		PDFLinks:     uniqueMatches(p.PDF, text),
		PhoneNumbers: uniqueMatches(p.Phone, text),
		MapLinks:     uniqueMatches(p.Map, text),
	}
}

// uniqueMatches returns the set of full matches of re in text. Never nil.
func uniqueMatches(re *regexp.Regexp, text string) []string {
	out := make([]string, 0)
	if re == nil {
		return out
	}
	seen := make(map[string]bool)
	for _, m := range re.FindAllString(text, -1) {
		if !seen[m] {
			seen[m] = true
			out = append(out, m)
		}
	}
	sort.Strings(out)
	return out
}
