// Package logging provides structured logging utilities for h2c providers.
//
// # Overview
//
// This package wraps the standard library slog package with project defaults:
// JSON output to stderr, module and version attributes on every record, and
// source locations when running at debug level.
//
// # Log Levels
//
// Supported log levels (case-insensitive):
//   - DEBUG: Detailed diagnostic information with source location
//   - INFO: General informational messages (default)
//   - WARN/WARNING: Conversion warnings (skipped monitors, missing CAs)
//   - ERROR: Fatal run failures
//
// # Usage
//
//	func main() {
//	    logging.SetDefaultStructuredLoggerWithLevel("h2c-servicemonitor", version, "info")
//	    slog.Info("converting", "inputs", len(paths))
//	}
//
// # Environment Configuration
//
// The LOG_LEVEL environment variable is used when no explicit level is given:
//
//	LOG_LEVEL=debug h2c-servicemonitor convert -i manifests/
package logging
