// Copyright 2026 The Crucible Authors
// SPDX-License-Identifier: Apache-2.0

// Package runner executes test bodies in their own operating-system
// processes.
//
// The privatefs sandbox mutates the process-wide working directory,
// so its safety under parallel test execution rests on one guarantee:
// no two sandboxes exist concurrently in the same process. Threads
// (or goroutines) cannot provide that — per-process isolation can.
// [Fork] makes the guarantee real for Go tests: the parent re-executes
// the test binary filtered to the calling test with a marker in the
// environment, and the child — recognizing the marker — runs the test
// body and exits. The parent reports the child's verdict, so a failure
// inside the forked body fails the original test with the child's
// output attached.
//
// [Execute] is the non-test counterpart used by the crucible CLI: it
// runs a command with the current working directory (the sandbox)
// inherited, in its own process group, and surfaces a non-zero exit
// as an [ExitError] so callers can propagate the code.
package runner
