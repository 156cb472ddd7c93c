// Copyright 2026 The Crucible Authors
// SPDX-License-Identifier: Apache-2.0

package runner

import (
	"errors"
	"os"
	"os/exec"
	"regexp"
	"strings"
	"syscall"
	"testing"
)

// forkEnv carries the full name of the test being forked. Its
// presence tells the child invocation to run the body directly.
const forkEnv = "CRUCIBLE_FORKED_TEST"

// Fork runs body in a dedicated child process and fails t if the
// child fails. Call it as the first statement of a test:
//
//	func TestWithSandbox(t *testing.T) {
//		runner.Fork(t, func(t *testing.T) {
//			sandbox, err := privatefs.Temporary()
//			...
//		})
//	}
//
// In the parent, Fork re-executes the test binary restricted to this
// test with the fork marker set, then reports the child's combined
// output and exit status. In the child, Fork runs body inline. Tests
// using Fork may run in parallel: each body owns its process, so
// working-directory mutation cannot race.
func Fork(t *testing.T, body func(t *testing.T)) {
	t.Helper()

	if os.Getenv(forkEnv) == t.Name() {
		body(t)
		return
	}

	executable, err := os.Executable()
	if err != nil {
		t.Fatalf("locating test binary: %v", err)
	}

	cmd := exec.Command(executable, "-test.run="+runPattern(t.Name()), "-test.count=1")
	cmd.Env = append(os.Environ(), forkEnv+"="+t.Name())
	// A process group of its own, so a hung body can be killed
	// without taking the parent test binary down.
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}

	output, err := cmd.CombinedOutput()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			t.Fatalf("forked test %s exited with code %d\n%s", t.Name(), exitErr.ExitCode(), output)
		}
		t.Fatalf("running forked test %s: %v\n%s", t.Name(), err, output)
	}
}

// Forked reports whether the current process is a forked test child.
// Use it to keep parent-only setup or assertions out of the child:
//
//	if !runner.Forked() {
//		t.Setenv("FIXTURE_DIR", prepareFixtures(t))
//	}
func Forked() bool {
	return os.Getenv(forkEnv) != ""
}

// runPattern builds a -test.run pattern that matches exactly the
// given test, anchoring each subtest path segment.
func runPattern(name string) string {
	segments := strings.Split(name, "/")
	for i, segment := range segments {
		segments[i] = "^" + regexp.QuoteMeta(segment) + "$"
	}
	return strings.Join(segments, "/")
}
