package scanner

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"io"
	"io/fs"
	"log/slog"
	"os/exec"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/nao1215/notices/internal/config"
)

// maxStderrLine bounds a single scanner stderr line kept in memory by the
// line reader. Longer lines are still captured, just not logged.
const maxStderrLine = 1024 * 1024

// Outcome is the result category of a single strategy attempt.
type Outcome int

const (
	// OutcomeSuccess means the scanner exited with status 0.
	OutcomeSuccess Outcome = iota

	// OutcomeNotFound means the scanner executable could not be located.
	OutcomeNotFound

	// OutcomeFailed means the scanner started but did not succeed.
	OutcomeFailed
)

// String returns a human-readable name for the outcome.
func (o Outcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "success"
	case OutcomeNotFound:
		return "not-found"
	case OutcomeFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Result is the outcome of one strategy attempt.
type Result struct {
	// Strategy is the invocation that was attempted.
	Strategy config.Strategy

	// Outcome classifies the attempt.
	Outcome Outcome

	// Output is the captured standard output on success.
	Output []byte

	// Err is set for OutcomeNotFound and OutcomeFailed.
	Err error
}

// Runner tries scanner strategies in order.
type Runner struct {
	// strategies are tried in order until one does not report not-found.
	strategies []config.Strategy

	// logger receives attempt progress and the scanner's stderr.
	logger *slog.Logger
}

// Option configures a Runner.
type Option func(*Runner)

// WithLogger sets a custom logger for the runner.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		r.logger = logger
	}
}

// NewRunner creates a Runner for the given strategies.
func NewRunner(strategies []config.Strategy, opts ...Option) *Runner {
	r := &Runner{
		strategies: strategies,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = slog.Default()
	}
	return r
}

// Run executes the first strategy whose executable can be found and returns
// its standard output.
//
// A strategy that fails to start because the executable is missing is
// skipped. A strategy that starts and then fails stops the run with an
// error matching ErrScannerFailed; later strategies are not tried. If no
// strategy could be started, the error matches ErrScannerUnavailable.
//
// No timeout is applied. The scanner is killed only when ctx is cancelled.
func (r *Runner) Run(ctx context.Context) ([]byte, error) {
	tried := make([]string, 0, len(r.strategies))
	for _, s := range r.strategies {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		res := r.Attempt(ctx, s)
		switch res.Outcome {
		case OutcomeSuccess:
			r.logger.Info("scanner succeeded", "strategy", s.Name, "bytes", len(res.Output))
			return res.Output, nil
		case OutcomeNotFound:
			r.logger.Debug("scanner not found, trying next strategy", "strategy", s.Name, "error", res.Err)
			tried = append(tried, CommandLine(s))
		default:
			return nil, res.Err
		}
	}
	return nil, unavailableError(tried)
}

// Attempt runs a single strategy and classifies the result.
// Standard output is captured in memory while standard error is both
// captured and streamed line by line to the debug log.
func (r *Runner) Attempt(ctx context.Context, s config.Strategy) Result {
	commandLine := CommandLine(s)
	r.logger.Debug("running scanner", "strategy", s.Name, "command", commandLine)

	cmd := exec.CommandContext(ctx, s.Command, s.Args...) //nolint:gosec // Scanner commands come from the user's configuration
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return r.failed(s, -1, "", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return r.failed(s, -1, "", err)
	}

	if err := cmd.Start(); err != nil {
		if isNotFound(err) {
			return Result{Strategy: s, Outcome: OutcomeNotFound, Err: err}
		}
		return r.failed(s, -1, "", err)
	}

	var out, errOut bytes.Buffer
	var g errgroup.Group
	g.Go(func() error {
		_, err := io.Copy(&out, stdout)
		return err
	})
	g.Go(func() error {
		return r.streamStderr(s, stderr, &errOut)
	})

	// Pipes must be drained before Wait closes them.
	copyErr := g.Wait()
	waitErr := cmd.Wait()

	if ctxErr := ctx.Err(); ctxErr != nil {
		return Result{Strategy: s, Outcome: OutcomeFailed, Err: ctxErr}
	}
	if waitErr != nil {
		exitCode := -1
		var exitErr *exec.ExitError
		if errors.As(waitErr, &exitErr) {
			exitCode = exitErr.ExitCode()
		}
		return r.failed(s, exitCode, errOut.String(), waitErr)
	}
	if copyErr != nil {
		return r.failed(s, -1, errOut.String(), copyErr)
	}

	return Result{Strategy: s, Outcome: OutcomeSuccess, Output: out.Bytes()}
}

// streamStderr copies the scanner's stderr into buf and logs each line.
func (r *Runner) streamStderr(s config.Strategy, stderr io.Reader, buf *bytes.Buffer) error {
	sc := bufio.NewScanner(io.TeeReader(stderr, buf))
	sc.Buffer(make([]byte, 0, 64*1024), maxStderrLine)
	for sc.Scan() {
		r.logger.Debug("scanner stderr", "strategy", s.Name, "line", sc.Text())
	}
	if err := sc.Err(); err != nil {
		// Keep draining so the scanner never blocks on a full pipe.
		_, err = io.Copy(buf, stderr)
		return err
	}
	return nil
}

// failed builds an OutcomeFailed result.
func (r *Runner) failed(s config.Strategy, exitCode int, stderr string, err error) Result {
	return Result{
		Strategy: s,
		Outcome:  OutcomeFailed,
		Err: &FailedError{
			Command:  CommandLine(s),
			ExitCode: exitCode,
			Stderr:   stderr,
			Err:      err,
		},
	}
}

// isNotFound reports whether a start error means the executable is missing.
func isNotFound(err error) bool {
	return errors.Is(err, exec.ErrNotFound) || errors.Is(err, fs.ErrNotExist)
}

// CommandLine returns the strategy's command and arguments joined by spaces.
func CommandLine(s config.Strategy) string {
	return strings.TrimSpace(s.Command + " " + strings.Join(s.Args, " "))
}
