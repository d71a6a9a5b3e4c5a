package output

import (
	"bufio"
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"

	"github.com/jonathan/pmc-harvester/internal/types"
)

// Appender appends records to a line-delimited JSON file, one write per record.
type Appender struct {
	path    string
	f       *os.File
	written int
}

// OpenAppender opens path for appending, creating it and its parent directory if needed.
// If an earlier run left the file without a trailing newline, one is added first so
// the next record starts on its own line.
func OpenAppender(path string) (*Appender, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, &WriteError{Path: path, Message: "failed to create output directory", Cause: err}
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, &WriteError{Path: path, Message: "failed to open output file", Cause: err}
	}

	needsNewline, err := missingTrailingNewline(path)
	if err != nil {
		_ = f.Close()
		return nil, &WriteError{Path: path, Message: "failed to inspect output file", Cause: err}
	}
	if needsNewline {
		if _, err := f.Write([]byte{'\n'}); err != nil {
			_ = f.Close()
			return nil, &WriteError{Path: path, Message: "failed to terminate last line", Cause: err}
		}
	}

	return &Appender{path: path, f: f}, nil
}

func missingTrailingNewline(path string) (bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return false, err
	}
	defer func() { _ = f.Close() }()

	info, err := f.Stat()
	if err != nil {
		return false, err
	}
	if info.Size() == 0 {
		return false, nil
	}

	last := make([]byte, 1)
	if _, err := f.ReadAt(last, info.Size()-1); err != nil {
		return false, err
	}
	return last[0] != '\n', nil
}

// Append writes rec as a single JSON line.
func (a *Appender) Append(rec *types.Record) error {
	data, err := types.CanonicalJSON(rec)
	if err != nil {
		return &WriteError{Path: a.path, Message: "failed to marshal record", Cause: err}
	}
	data = append(data, '\n')
	if _, err := a.f.Write(data); err != nil {
		return &WriteError{Path: a.path, Message: "failed to append record", Cause: err}
	}
	a.written++
	return nil
}

// Written returns the number of records appended through this Appender.
func (a *Appender) Written() int {
	return a.written
}

// Path returns the output file path.
func (a *Appender) Path() string {
	return a.path
}

// Close closes the underlying file.
func (a *Appender) Close() error {
	if err := a.f.Close(); err != nil {
		return &WriteError{Path: a.path, Message: "failed to close output file", Cause: err}
	}
	return nil
}

// ScanLines calls fn with every non-blank line of the file at path, numbered from 1.
// Lines of any length are supported. Open errors are returned unwrapped so callers
// can test for fs.ErrNotExist. Iteration stops at the first error returned by fn.
func ScanLines(path string, fn func(lineNo int, line []byte) error) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	r := bufio.NewReader(f)
	lineNo := 0
	for {
		line, readErr := r.ReadBytes('\n')
		if len(line) > 0 {
			lineNo++
			if trimmed := bytes.TrimSpace(line); len(trimmed) > 0 {
				if err := fn(lineNo, trimmed); err != nil {
					return err
				}
			}
		}
		if errors.Is(readErr, io.EOF) {
			return nil
		}
		if readErr != nil {
			return readErr
		}
	}
}
