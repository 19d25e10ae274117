package toolchain

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// Runner executes one toolchain script and captures its output.
type Runner interface {
	Run(ctx context.Context, dir string, env map[string]string, name string, args ...string) (string, error)
}

// ExitError is returned when a script exits non-zero.
//
// Its message ends with the script's stderr, so the last line of the
// error text is usually the script's own failure message.
type ExitError struct {
	Cmd    string
	Stderr string
	Cause  error
}

func (e *ExitError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Cmd, e.Cause)
	if s := strings.TrimSpace(e.Stderr); s != "" {
		msg += "\n" + s
	}
	return msg
}

func (e *ExitError) Unwrap() error {
	return e.Cause
}

type execRunner struct{}

// NewRunner builds a Runner executing scripts as subprocesses.
//
// The subprocess inherits the server's environment with env entries
// appended, runs in dir, and is killed when ctx is canceled.
func NewRunner() Runner {
	return execRunner{}
}

func (execRunner) Run(ctx context.Context, dir string, env map[string]string, name string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	cmd.Env = os.Environ()
	for k, v := range env {
		cmd.Env = append(cmd.Env, k+"="+v)
	}

	stdout := new(bytes.Buffer)
	stderr := new(bytes.Buffer)
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	if err := cmd.Run(); err != nil {
		return stdout.String(), &ExitError{
			Cmd:    name + " " + strings.Join(args, " "),
			Stderr: stderr.String(),
			Cause:  err,
		}
	}
	return stdout.String(), nil
}
