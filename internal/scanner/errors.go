package scanner

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrScannerUnavailable is returned when no strategy could start the scanner.
	ErrScannerUnavailable = errors.New("could not run nlf")

	// ErrScannerFailed is returned when a started scanner exits unsuccessfully.
	ErrScannerFailed = errors.New("command failed")
)

// remediationHint is appended to ErrScannerUnavailable messages.
const remediationHint = "Fix: ensure Node/npm are installed and available in PATH."

// FailedError describes a scanner process that started but did not succeed.
// It matches ErrScannerFailed with errors.Is.
type FailedError struct {
	// Command is the full command line that was executed.
	Command string

	// ExitCode is the process exit code, or -1 if it did not exit normally.
	ExitCode int

	// Stderr is the captured standard error of the process.
	Stderr string

	// Err is the underlying error from os/exec.
	Err error
}

// Error returns the command line followed by the scanner's error output.
func (e *FailedError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s", ErrScannerFailed, e.Command)
	if e.ExitCode >= 0 {
		fmt.Fprintf(&b, " (exit status %d)", e.ExitCode)
	} else if e.Err != nil {
		fmt.Fprintf(&b, " (%v)", e.Err)
	}
	if stderr := strings.TrimSpace(e.Stderr); stderr != "" {
		b.WriteString("\n")
		b.WriteString(stderr)
	}
	return b.String()
}

// Unwrap returns the underlying os/exec error.
func (e *FailedError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrScannerFailed.
func (e *FailedError) Is(target error) bool {
	return target == ErrScannerFailed
}

// unavailableError builds the error returned when every strategy was skipped.
func unavailableError(tried []string) error {
	return fmt.Errorf("%w.\nTried: %s\n%s", ErrScannerUnavailable, strings.Join(tried, ", "), remediationHint)
}
