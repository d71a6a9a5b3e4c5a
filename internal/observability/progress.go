package observability

import (
	"io"
	"os"

	"github.com/cheggaaa/pb/v3"
	"golang.org/x/term"
)

// Progress reports per-URL progress of a run.
type Progress interface {
	Increment()
	Finish()
}

type nopProgress struct{}

func (nopProgress) Increment() {}
func (nopProgress) Finish()    {}

// NopProgress returns a Progress that reports nothing.
func NopProgress() Progress {
	return nopProgress{}
}

type barProgress struct {
	bar *pb.ProgressBar
}

func (b *barProgress) Increment() { b.bar.Increment() }
func (b *barProgress) Finish()    { b.bar.Finish() }

// NewProgress returns a progress bar on stderr when stderr is a terminal,
// and a no-op otherwise so redirected output stays clean.
func NewProgress(total int, label string) Progress {
	return newProgress(os.Stderr, total, label, isTerminal(os.Stderr))
}

func newProgress(w io.Writer, total int, label string, enabled bool) Progress {
	if !enabled || total <= 0 {
		return nopProgress{}
	}

	bar := pb.New(total)
	bar.SetWriter(w)
	bar.Set("prefix", label+" ")
	bar.Start()
	return &barProgress{bar: bar}
}

// isTerminal reports whether w is a file attached to a terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
