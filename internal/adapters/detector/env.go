// Package detector selects the output mode from the execution environment.
package detector

import (
	"os"

	"golang.org/x/term"
)

// OutputMode selects how staging progress is rendered.
type OutputMode int

const (
	// ModeAuto picks a mode from the execution environment.
	ModeAuto OutputMode = iota
	// ModeTUI forces the interactive renderer.
	ModeTUI
	// ModeLinear forces the plain streaming renderer.
	ModeLinear
)

// DetectEnvironment returns the output mode the environment calls for.
// CI runners and platform dynos get the linear renderer even when a pty
// is attached; everything else follows whether stdout is a terminal.
func DetectEnvironment() OutputMode {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return ModeLinear
	}
	if isCI() || isDyno() {
		return ModeLinear
	}
	return ModeTUI
}

func isCI() bool {
	ci := os.Getenv("CI")
	return ci == "true" || ci == "1"
}

// isDyno reports whether the process runs on a platform dyno. Build
// dynos attach a pty, but the output goes to the platform log stream.
func isDyno() bool {
	return os.Getenv("DYNO") != ""
}

// ResolveMode applies the user's output-mode flag over detection.
// Recognized values are "auto", "tui", "linear", and "ci"; anything
// else falls back to the detected mode.
func ResolveMode(detected OutputMode, flag string) OutputMode {
	switch flag {
	case "tui":
		return ModeTUI
	case "linear", "ci":
		return ModeLinear
	default:
		return detected
	}
}
