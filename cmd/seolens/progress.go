package main

import (
	"io"
	"os"
	"time"

	"github.com/briandowns/spinner"
	"github.com/mattn/go-isatty"
)

// progress shows a spinner on a terminal while crawls run.
// On anything else it does nothing, so logs and reports stay clean.
type progress struct {
	spinner *spinner.Spinner
}

func newProgress(w io.Writer, enabled bool) *progress {
	if !enabled || !isTerminal(w) {
		return &progress{}
	}
	return &progress{
		spinner: spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(w)),
	}
}

// Start shows msg next to the spinner.
func (p *progress) Start(msg string) {
	if p.spinner == nil {
		return
	}
	p.spinner.Stop()
	p.spinner.Suffix = " " + msg
	p.spinner.Start()
}

// Stop hides the spinner.
func (p *progress) Stop() {
	if p.spinner == nil {
		return
	}
	p.spinner.Stop()
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
