// Package errors provides structured error types for the fatal paths of a
// conversion run. Per-manifest resolution problems are never errors; they are
// recorded as warnings on the run context instead.
//
// The command line maps an error to its exit status with ExitCode.
//
// Example usage:
//
//	err := errors.WrapWithContext(
//	    errors.ErrCodeIO,
//	    "failed to write scrape config",
//	    err,
//	    map[string]any{
//	        "path": path,
//	    },
//	)
package errors
