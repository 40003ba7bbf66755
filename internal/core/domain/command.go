package domain

import "fmt"

// Command describes one external command run during staging.
type Command struct {
	// Name is the stable identifier used for captured output files.
	Name string

	// Argv is the program and its arguments. The program is looked up
	// on the staged PATH, not the host PATH.
	Argv []string

	// Dir is the working directory.
	Dir string

	// Env holds extra variables layered over the staged environment.
	Env map[string]string
}

// CommandError reports an external command that exited non-zero. The
// process exit status of a failed staging run mirrors ExitCode.
type CommandError struct {
	// Name is the command identifier, matching Command.Name.
	Name string

	// ExitCode is the command's exit status. It is -1 when the command
	// died on a signal or never started.
	ExitCode int

	// LogPath points at the captured output, empty when capture failed.
	LogPath string

	// Err is the underlying execution error.
	Err error
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("%s exited with status %d", e.Name, e.ExitCode)
}

func (e *CommandError) Unwrap() error {
	return e.Err
}
