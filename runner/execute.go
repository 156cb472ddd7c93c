// Copyright 2026 The Crucible Authors
// SPDX-License-Identifier: Apache-2.0

package runner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"syscall"
)

// ExitError represents a non-zero exit from a command run inside the
// sandbox.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("command exited with code %d", e.Code)
}

// IsExitError checks if an error is an ExitError and returns the code.
func IsExitError(err error) (int, bool) {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code, true
	}
	return 0, false
}

// Execute runs argv with stdio inherited and the current working
// directory — the sandbox, when called after construction — left as
// is. The command gets its own process group so that cancelling ctx
// kills the whole tree, not just the immediate child. A non-zero
// exit is returned as an [ExitError].
func Execute(ctx context.Context, argv []string, logger *slog.Logger) error {
	if len(argv) == 0 {
		return fmt.Errorf("no command given")
	}
	if logger == nil {
		logger = slog.Default()
	}

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Cancel = func() error {
		// Negative pid signals the process group.
		return syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
	}

	logger.Debug("executing command", "argv", argv)
	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return &ExitError{Code: exitErr.ExitCode()}
		}
		return fmt.Errorf("running %s: %w", argv[0], err)
	}
	return nil
}
