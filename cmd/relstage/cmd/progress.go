package cmd

import (
	"os"
	"time"

	"github.com/briandowns/spinner"
	"github.com/relstage/relstage/pkg/release"
	"golang.org/x/term"
)

var loader *spinner.Spinner

// startSpinner starts the CLI loading spinner. It is a no-op when stdout
// is not a terminal, so scripted runs get clean output.
func startSpinner(suffix string) {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return
	}
	loader = spinner.New(spinner.CharSets[11], 100*time.Millisecond)
	loader.Color("yellow") //nolint:errcheck
	loader.Suffix = " " + suffix
	loader.Start()
}

// stopSpinner stops the CLI loading spinner.
func stopSpinner() {
	if loader != nil {
		loader.Stop()
		loader = nil
	}
}

// stepProgress animates the steps which may wait on the network
func stepProgress() release.StepObserver {
	return func(step release.Step) {
		stopSpinner()
		switch step {
		case release.StepRewriting:
			startSpinner("rewriting history...")
		case release.StepPushing:
			startSpinner("pushing to the remote...")
		}
	}
}
