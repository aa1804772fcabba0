package executor

import (
	"bytes"
	"context"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/arthur-debert/paldeploy/pkg/errors"
	"github.com/arthur-debert/paldeploy/pkg/logging"
	"github.com/rs/zerolog"
)

// Command describes one external process invocation
type Command struct {
	Name string
	Args []string
	Dir  string
}

// String renders the command line for logs and error messages
func (c Command) String() string {
	return strings.TrimSpace(c.Name + " " + strings.Join(c.Args, " "))
}

// Result holds the captured output of a finished command
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// Runner runs external commands synchronously. Implementations must not
// return before the process has exited.
type Runner interface {
	Run(ctx context.Context, cmd Command) (Result, error)
}

// ProcessRunner runs commands as child processes
type ProcessRunner struct {
	logger zerolog.Logger
	stream bool
	out    io.Writer
}

// NewProcessRunner creates a runner. With stream set, child output is
// copied to the terminal while it runs, otherwise it is only captured.
func NewProcessRunner(stream bool) *ProcessRunner {
	return &ProcessRunner{
		logger: logging.GetLogger("executor"),
		stream: stream,
		out:    os.Stderr,
	}
}

// Run executes cmd and waits for it. A non-zero exit is returned as an
// ErrCommandExecute error; the Result is populated either way.
func (r *ProcessRunner) Run(ctx context.Context, cmd Command) (Result, error) {
	logging.LogCommand(r.logger, cmd.Dir, cmd.String())

	proc := exec.CommandContext(ctx, cmd.Name, cmd.Args...)
	proc.Dir = cmd.Dir

	var stdout, stderr bytes.Buffer
	if r.stream {
		proc.Stdout = io.MultiWriter(&stdout, r.out)
		proc.Stderr = io.MultiWriter(&stderr, r.out)
	} else {
		proc.Stdout = &stdout
		proc.Stderr = &stderr
	}

	err := proc.Run()
	result := Result{
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}
	if proc.ProcessState != nil {
		result.ExitCode = proc.ProcessState.ExitCode()
	}

	if err != nil {
		r.logger.Debug().
			Err(err).
			Str("command", cmd.String()).
			Str("dir", cmd.Dir).
			Str("stderr", strings.TrimSpace(result.Stderr)).
			Msg("Command failed")
		return result, errors.Wrapf(err, errors.ErrCommandExecute, "%s failed in %s", cmd.String(), cmd.Dir).
			WithDetail("stderr", strings.TrimSpace(result.Stderr))
	}

	return result, nil
}
