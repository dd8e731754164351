// Package logging provides structured logging for the lanpin tools.
//
// This package wraps zap logger with convenience functions for the
// logging patterns used across the resolver and announcer. Output goes
// to stderr so the tools' stdout stays reserved for machine-readable
// results.
//
// # Log Levels
//
// The package supports standard log levels:
//   - Debug: per-probe outcomes, neighbor table polls
//   - Info: scan parameters, matches, announcement lifecycle
//   - Warn: non-fatal issues (prober fallback, late replies)
//   - Error: fatal issues (registration failures)
//
// # Configuration
//
// Logging is silent by default so the CLIs stay script-friendly. Set
// LANPIN_LOG_LEVEL or pass --log-level to enable output:
//
//	if err := logging.Initialize(logLevel); err != nil {
//	    return err
//	}
//	defer logging.Sync()
//
// # Thread Safety
//
// All logging functions are safe for concurrent use. The underlying zap
// logger handles synchronization automatically.
package logging
