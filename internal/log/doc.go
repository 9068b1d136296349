// Package log provides structured logging for notices, built on top of the
// standard slog package.
//
// The RedactingHandler wraps any slog.Handler and masks credentials before
// they reach the log output. This matters because the external license
// scanner runs through npm, and npm error output can echo registry
// credentials from .npmrc:
//   - Attributes whose key names a secret (token, password, auth, ...)
//   - npm access tokens (npm_...) and _authToken / _password settings
//   - Bearer and Basic authorization values
//   - user:password pairs embedded in registry URLs
//
// # Usage
//
//	logger := log.NewLogger(os.Stderr, verbose)
//	slog.SetDefault(logger)
//
//	logger.Debug("scanner stderr", "line", line) // tokens in line are masked
package log
