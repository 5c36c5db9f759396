// Package log provides a simple, leveled logging interface used throughout
// the engine: the plugin loader, the transport server, and the bundled
// PrintNode all log through it instead of taking a concrete logger type.
//
// # Log Levels
//
// Five levels, in order of increasing severity:
//
//   - LogLevelDebug: detailed information useful during development
//   - LogLevelInfo: general informational messages about normal operation
//   - LogLevelWarn: potentially problematic situations that don't stop a run
//   - LogLevelError: failures that need attention
//   - LogLevelNone: disables all logging output
//
// # Logger Interface
//
// Logger has four methods — Debug, Info, Warn, Error — each taking a
// printf-style format string and arguments. DefaultLogger implements it on
// top of the standard library's log package; GologLogger implements it on
// top of github.com/kataras/golog for callers who want golog's structured
// output instead.
//
// # Example
//
//	logger := log.NewDefaultLogger(log.LogLevelInfo)
//	logger.Info("listening on %s", addr)
//	logger.Debug("collected inputs: %v", inputs)
//	logger.Warn("plugin %q failed to load: %v", name, err)
//	logger.Error("run failed: %v", err)
//
// # Package-level logger
//
// GetDefaultLogger/SetDefaultLogger hold a process-wide default so code that
// doesn't have a Logger passed to it explicitly (like nodelib's PrintNode)
// still has somewhere to write. SetLogLevel is a shorthand for replacing the
// default with a fresh DefaultLogger at the given level.
package log
