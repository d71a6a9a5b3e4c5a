package dedup

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"

	"github.com/jonathan/pmc-harvester/internal/output"
	"github.com/jonathan/pmc-harvester/internal/types"
)

// LoadError represents a failure to read an existing output file.
type LoadError struct {
	Path  string
	Cause error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load error: failed to read %s: %v", e.Path, e.Cause)
}

func (e *LoadError) Unwrap() error {
	return e.Cause
}

// Index is the in-memory set of content hashes known for one output file.
// It is owned by a single run and is not safe for concurrent use.
type Index struct {
	seen    map[string]struct{}
	lines   int
	skipped int
}

// NewIndex returns an empty index.
func NewIndex() *Index {
	return &Index{seen: make(map[string]struct{})}
}

// Load rebuilds the index from the JSONL file at path.
// A missing file yields an empty index. Lines that do not decode, lack a raw
// field, or cannot be hashed are skipped and counted in Skipped.
func Load(path string) (*Index, error) {
	idx := NewIndex()

	err := output.ScanLines(path, func(_ int, line []byte) error {
		idx.lines++
		hash, ok := hashStoredLine(line)
		if !ok {
			idx.skipped++
			return nil
		}
		idx.Add(hash)
		return nil
	})
	if errors.Is(err, fs.ErrNotExist) {
		return idx, nil
	}
	if err != nil {
		return nil, &LoadError{Path: path, Cause: err}
	}
	return idx, nil
}

// hashStoredLine recomputes the content hash of one persisted record line.
func hashStoredLine(line []byte) (string, bool) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(line, &fields); err != nil {
		return "", false
	}

	rawJSON, ok := fields["raw"]
	if !ok {
		return "", false
	}
	raw, err := types.DecodeJSON(rawJSON)
	if err != nil {
		return "", false
	}

	var lang, sourceURL string
	if v, ok := fields["lang"]; ok {
		if err := json.Unmarshal(v, &lang); err != nil {
			return "", false
		}
	}
	if v, ok := fields["source_url"]; ok {
		if err := json.Unmarshal(v, &sourceURL); err != nil {
			return "", false
		}
	}

	hash, err := ContentHash(raw, types.Lang(lang), sourceURL)
	if err != nil {
		return "", false
	}
	return hash, true
}

// Contains reports whether hash is already known.
func (i *Index) Contains(hash string) bool {
	_, ok := i.seen[hash]
	return ok
}

// Add marks hash as known.
func (i *Index) Add(hash string) {
	i.seen[hash] = struct{}{}
}

// Len returns the number of distinct hashes.
func (i *Index) Len() int {
	return len(i.seen)
}

// Lines returns the number of non-blank lines read by Load.
func (i *Index) Lines() int {
	return i.lines
}

// Skipped returns the number of lines Load could not index.
func (i *Index) Skipped() int {
	return i.skipped
}
