package cli

import (
	"io"
	"os"
	"sync"
	"time"

	"github.com/briandowns/spinner"
	"golang.org/x/term"

	"github.com/ericfisherdev/canvasdue/internal/application"
)

// SpinnerProgress shows refresh progress as a terminal spinner.
type SpinnerProgress struct {
	mu sync.Mutex
	s  *spinner.Spinner
}

var _ application.Progress = (*SpinnerProgress)(nil)

// NewSpinnerProgress creates a spinner that draws on w.
func NewSpinnerProgress(w io.Writer) *SpinnerProgress {
	return &SpinnerProgress{
		s: spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(w)),
	}
}

// ProgressFor returns a spinner on f when it is a terminal, otherwise nil so
// that piped output stays free of control sequences.
func ProgressFor(f *os.File) application.Progress {
	if !term.IsTerminal(int(f.Fd())) {
		return nil
	}
	return NewSpinnerProgress(f)
}

// Step replaces the spinner message, starting the spinner if needed.
func (p *SpinnerProgress) Step(msg string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.s.Lock()
	p.s.Suffix = " " + msg
	p.s.Unlock()

	if !p.s.Active() {
		p.s.Start()
	}
}

// Done stops and erases the spinner.
func (p *SpinnerProgress) Done() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.s.Stop()
}
