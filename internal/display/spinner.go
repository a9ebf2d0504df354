package display

import (
	"os"
	"time"

	"github.com/briandowns/spinner"
)

// Spinner shows an animated progress indicator on stderr. It does nothing
// when stderr is not a terminal.
type Spinner struct {
	s       *spinner.Spinner
	enabled bool
}

// NewSpinner creates a spinner with the given message
func NewSpinner(msg string) *Spinner {
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond,
		spinner.WithWriter(os.Stderr),
		spinner.WithHiddenCursor(true),
	)
	s.Suffix = " " + msg
	return &Spinner{
		s:       s,
		enabled: IsErrorTerminal(),
	}
}

// Start begins the animation
func (sp *Spinner) Start() {
	if sp.enabled {
		sp.s.Start()
	}
}

// Stop ends the animation and clears the line
func (sp *Spinner) Stop() {
	if sp.enabled {
		sp.s.Stop()
	}
}
