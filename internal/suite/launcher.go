package suite

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
)

// Launcher starts the external model-execution program. The argument
// vector is passed through as discrete arguments; implementations must not
// hand it to a shell.
type Launcher interface {
	Launch(ctx context.Context, args []string) error
}

// ExecLauncher runs the model-execution program as a child process.
// The call blocks until the process exits; callers wanting a timeout wrap
// the context themselves.
type ExecLauncher struct {
	// Program is the model-execution executable.
	Program string

	// Dir is the working directory for the child process. Empty means
	// inherit.
	Dir string

	// Stdout and Stderr receive the child's output. Nil defaults to the
	// parent's streams.
	Stdout io.Writer
	Stderr io.Writer
}

// Launch implements Launcher.
func (l *ExecLauncher) Launch(ctx context.Context, args []string) error {
	cmd := exec.CommandContext(ctx, l.Program, args...)
	cmd.Dir = l.Dir
	cmd.Stdout = l.Stdout
	cmd.Stderr = l.Stderr
	if cmd.Stdout == nil {
		cmd.Stdout = os.Stdout
	}
	if cmd.Stderr == nil {
		cmd.Stderr = os.Stderr
	}
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("launch %s: %w", l.Program, err)
	}
	return nil
}
