package output

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jonathan/pmc-harvester/internal/types"
)

// SuccessLogName is the file name of the success log for lang.
func SuccessLogName(lang types.Lang) string {
	return fmt.Sprintf("success_links_%s.txt", lang)
}

// FailureLogName is the file name of the failure log for lang.
func FailureLogName(lang types.Lang) string {
	return fmt.Sprintf("failed_links_%s.txt", lang)
}

// RunLog holds the success and failure URL lists of one language run.
// Both files are truncated when the log is created.
type RunLog struct {
	successPath string
	failurePath string
	success     *os.File
	failure     *os.File
}

// CreateRunLog creates (or truncates) the success and failure logs for lang in dir.
func CreateRunLog(dir string, lang types.Lang) (*RunLog, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, &WriteError{Path: dir, Message: "failed to create log directory", Cause: err}
	}

	l := &RunLog{
		successPath: filepath.Join(dir, SuccessLogName(lang)),
		failurePath: filepath.Join(dir, FailureLogName(lang)),
	}

	var err error
	if l.success, err = os.Create(l.successPath); err != nil {
		return nil, &WriteError{Path: l.successPath, Message: "failed to create success log", Cause: err}
	}
	if l.failure, err = os.Create(l.failurePath); err != nil {
		_ = l.success.Close()
		return nil, &WriteError{Path: l.failurePath, Message: "failed to create failure log", Cause: err}
	}
	return l, nil
}

// Success appends url to the success log.
func (l *RunLog) Success(url string) error {
	return writeLine(l.success, l.successPath, url)
}

// Failure appends url to the failure log.
func (l *RunLog) Failure(url string) error {
	return writeLine(l.failure, l.failurePath, url)
}

// Paths returns the success and failure log paths.
func (l *RunLog) Paths() (success, failure string) {
	return l.successPath, l.failurePath
}

// Close closes both log files, returning the first error.
func (l *RunLog) Close() error {
	errSuccess := l.success.Close()
	errFailure := l.failure.Close()
	if errSuccess != nil {
		return &WriteError{Path: l.successPath, Message: "failed to close success log", Cause: errSuccess}
	}
	if errFailure != nil {
		return &WriteError{Path: l.failurePath, Message: "failed to close failure log", Cause: errFailure}
	}
	return nil
}

func writeLine(f *os.File, path, line string) error {
	if _, err := f.WriteString(line + "\n"); err != nil {
		return &WriteError{Path: path, Message: "failed to write log line", Cause: err}
	}
	return nil
}
