// Package scanner runs the external nlf license scanner.
//
// The scanner can be installed in several ways, so the Runner tries an
// ordered list of invocation strategies. Each attempt ends in one of three
// outcomes:
//   - OutcomeSuccess: the process exited with status 0; its stdout is the report
//   - OutcomeNotFound: the executable could not be located; the next strategy is tried
//   - OutcomeFailed: the process started but failed; the run stops immediately
//
// If every strategy is not found, Run returns ErrScannerUnavailable with a
// remediation hint.
package scanner
