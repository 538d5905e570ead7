// Package ffmpeg provides functionality for detecting and working with FFmpeg.
package ffmpeg

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/hashicorp/go-hclog"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Private types (alphabetical)

// boundedKey marks a context whose cancellation must stop the process.
type boundedKey struct{}

// Public types (alphabetical)

// ExecRunner runs programs with os/exec. It never goes through a shell and
// never forwards stdin, so a program waiting for input sees EOF immediately.
type ExecRunner struct {
	// Logger receives one debug line per launch and per exit. Nil disables logging.
	Logger hclog.Logger

	// Observer, when set, is told about every finished or failed launch.
	Observer ProcessObserver
}

// ProcessObserver is notified about finished processes. It is implemented by
// the metrics package and kept as an interface to avoid an import cycle.
type ProcessObserver interface {
	ObserveProcess(program string, elapsed time.Duration)
	ObserveLaunchFailure(program string)
}

// Runner executes one program to completion. Implementations must return a
// *LaunchError when the program cannot be started and a Result with a non-zero
// ExitCode (and nil error) when it ran and failed.
type Runner interface {
	Run(ctx context.Context, argv []string) (Result, error)
}

// Private functions (alphabetical)

// decodeOutput converts captured bytes to a string, replacing invalid UTF-8
// sequences instead of failing.
func decodeOutput(b []byte) string {
	if len(b) == 0 {
		return ""
	}
	s, _, err := transform.Bytes(unicode.UTF8.NewDecoder(), b)
	if err != nil {
		return strings.ToValidUTF8(string(b), "�")
	}
	return string(s)
}

// isBounded reports whether ctx was marked with Bounded.
func isBounded(ctx context.Context) bool {
	bounded, _ := ctx.Value(boundedKey{}).(bool)
	return bounded
}

// programName returns the base name of argv[0] for logs and metric labels.
func programName(argv0 string) string {
	return strings.TrimSuffix(filepath.Base(argv0), ".exe")
}

// Public functions (alphabetical)

// Bounded marks ctx so that ExecRunner kills the process once ctx is done
// and reports the context error. Unmarked contexts never stop a started
// process.
func Bounded(ctx context.Context) context.Context {
	return context.WithValue(ctx, boundedKey{}, true)
}

// NewExecRunner creates an ExecRunner logging through logger.
func NewExecRunner(logger hclog.Logger, observer ProcessObserver) *ExecRunner {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &ExecRunner{Logger: logger, Observer: observer}
}

// Public methods (alphabetical)

// Run starts argv[0] with the remaining elements as arguments and blocks until
// the process exits. Cancellation of ctx does not terminate a started process
// unless ctx was marked with Bounded.
func (r *ExecRunner) Run(ctx context.Context, argv []string) (Result, error) {
	if len(argv) == 0 {
		return Result{}, &LaunchError{Program: "", Err: errors.New("empty argument vector")}
	}

	logger := r.Logger
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	program := programName(argv[0])

	bounded := isBounded(ctx)
	runCtx := context.WithoutCancel(ctx)
	if bounded {
		runCtx = ctx
	}
	cmd := exec.CommandContext(runCtx, argv[0], argv[1:]...)
	if bounded {
		cmd.WaitDelay = stopWaitDelay
	}
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	logger.Debug("starting process", "program", program, "argv", strings.Join(argv, " "))
	started := time.Now()

	if err := cmd.Start(); err != nil {
		logger.Warn("process launch failed", "program", program, "error", err)
		if r.Observer != nil {
			r.Observer.ObserveLaunchFailure(program)
		}
		return Result{}, &LaunchError{Program: argv[0], Err: err}
	}

	waitErr := cmd.Wait()
	elapsed := time.Since(started)
	if r.Observer != nil {
		r.Observer.ObserveProcess(program, elapsed)
	}

	result := Result{
		ExitCode: cmd.ProcessState.ExitCode(),
		Stdout:   decodeOutput(stdout.Bytes()),
		Stderr:   decodeOutput(stderr.Bytes()),
	}

	if bounded && waitErr != nil && ctx.Err() != nil {
		logger.Warn("process stopped", "program", program, "error", ctx.Err(), "elapsed", elapsed)
		return result, fmt.Errorf("%s stopped after %s: %w", program, elapsed.Round(time.Millisecond), ctx.Err())
	}

	var exitErr *exec.ExitError
	if waitErr != nil && !errors.As(waitErr, &exitErr) {
		// I/O copy failures after a successful start still leave an exit status.
		logger.Warn("process wait reported an error", "program", program, "error", waitErr)
	}
	// Killed by a signal: ExitCode reports -1, which is already non-zero.

	logger.Debug("process finished", "program", program, "exit_code", result.ExitCode, "elapsed", elapsed)
	return result, nil
}
