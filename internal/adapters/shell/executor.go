// Package shell implements the Executor port using os/exec and pty.
package shell

import (
	"context"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/creack/pty"
	"github.com/stagehand-dev/stagehand/internal/core/domain"
)

// Executor implements ports.Executor. Commands run in a pty so tools
// that detect a terminal keep their normal output; on systems without
// pty support it falls back to plain pipes.
type Executor struct{}

// NewExecutor creates a shell Executor.
func NewExecutor() *Executor {
	return &Executor{}
}

// Execute runs the command and waits for it to complete. Combined
// output is streamed to out. Every failure is reported as a
// *domain.CommandError; its exit code is -1 when the command never
// started or died on a signal.
func (e *Executor) Execute(ctx context.Context, command *domain.Command, env []string, out io.Writer) error {
	if len(command.Argv) == 0 {
		return nil
	}

	name := command.Argv[0]
	args := command.Argv[1:]

	cmdEnv := resolveEnvironment(os.Environ(), env, command.Env)

	// Resolve the program against the staged PATH, not the host PATH.
	executable := name
	if !filepath.IsAbs(name) {
		if lp, err := lookPath(name, cmdEnv); err == nil {
			executable = lp
		}
	}

	cmd := exec.CommandContext(ctx, executable, args...) //nolint:gosec // staging commands are assembled internally
	if len(cmd.Args) > 0 {
		// Preserve the name as invoked; CommandContext puts the
		// resolved path into Args[0].
		cmd.Args[0] = name
	}
	cmd.Dir = command.Dir
	cmd.Env = cmdEnv

	proc, err := start(cmd, out)
	if err != nil {
		return &domain.CommandError{Name: command.Name, ExitCode: -1, Err: err}
	}

	if err := proc.wait(); err != nil {
		exitCode := -1
		if exitErr, ok := err.(*exec.ExitError); ok {
			exitCode = exitErr.ExitCode()
		}
		return &domain.CommandError{Name: command.Name, ExitCode: exitCode, Err: err}
	}

	return nil
}

type process struct {
	cmd    *exec.Cmd
	ioDone <-chan struct{}
}

func (p *process) wait() error {
	err := p.cmd.Wait()
	if p.ioDone != nil {
		// Drain the pty before reporting so out has the full output.
		<-p.ioDone
	}
	return err
}

// start launches cmd with a pty, falling back to pipes when the system
// cannot allocate one.
func start(cmd *exec.Cmd, out io.Writer) (*process, error) {
	ptmx, err := pty.Start(cmd)
	if err != nil {
		cmd.Stdout = out
		cmd.Stderr = out
		if err := cmd.Start(); err != nil {
			return nil, err
		}
		return &process{cmd: cmd}, nil
	}

	ioDone := make(chan struct{})
	go func() {
		defer close(ioDone)
		defer func() { _ = ptmx.Close() }()
		// The master side reports EIO once the child exits; the copy
		// error carries no information.
		_, _ = io.Copy(out, ptmx)
	}()

	return &process{cmd: cmd, ioDone: ioDone}, nil
}

// allowListedEnvVars are the host environment variables a staged
// command may inherit. Everything else reaches the command only through
// the runtime environment or the command's own variables.
var allowListedEnvVars = map[string]struct{}{
	"HOME": {},
	"LANG": {},
	"PATH": {},
	"TERM": {},
	"USER": {},
}

// resolveEnvironment merges environment variables with the defined priority.
func resolveEnvironment(sysEnv, runtimeEnv []string, cmdEnv map[string]string) []string {
	// 1. Start with the host environment (allow-list only)
	envMap := filterSystemEnv(sysEnv)

	// 2. Apply the runtime environment (prepend PATH)
	applyRuntimeEnv(envMap, runtimeEnv)

	// 3. Apply per-command overrides
	for k, v := range cmdEnv {
		envMap[k] = v
	}

	result := make([]string, 0, len(envMap))
	for k, v := range envMap {
		result = append(result, k+"="+v)
	}
	return result
}

func filterSystemEnv(sysEnv []string) map[string]string {
	envMap := make(map[string]string)
	for _, entry := range sysEnv {
		k, v, ok := strings.Cut(entry, "=")
		if ok {
			if _, allowed := allowListedEnvVars[k]; allowed {
				envMap[k] = v
			}
		}
	}
	return envMap
}

func applyRuntimeEnv(envMap map[string]string, runtimeEnv []string) {
	for _, entry := range runtimeEnv {
		k, v, ok := strings.Cut(entry, "=")
		if !ok {
			continue
		}
		if k == "PATH" {
			if sysPath, exists := envMap["PATH"]; exists && sysPath != "" {
				envMap[k] = v + string(os.PathListSeparator) + sysPath
			} else {
				envMap[k] = v
			}
			continue
		}
		envMap[k] = v
	}
}

// lookPath searches for an executable in the directories named by the PATH environment variable.
func lookPath(file string, env []string) (string, error) {
	var path string
	for _, e := range env {
		if strings.HasPrefix(e, "PATH=") {
			path = strings.TrimPrefix(e, "PATH=")
			break
		}
	}

	if path == "" {
		return "", exec.ErrNotFound
	}

	for _, dir := range filepath.SplitList(path) {
		if dir == "" {
			// Unix shell semantics: path element "" means "."
			dir = "."
		}
		candidate := filepath.Join(dir, file)
		if err := findExecutable(candidate); err == nil {
			return candidate, nil
		}
	}
	return "", exec.ErrNotFound
}

func findExecutable(file string) error {
	d, err := os.Stat(file)
	if err != nil {
		return err
	}
	if m := d.Mode(); !m.IsDir() && m&0o111 != 0 {
		return nil
	}
	return os.ErrPermission
}
