// Package log provides a simple, leveled logging interface for lionago.
//
// Library code never writes to stdout/stderr directly; it goes through the
// package-level Logger, which defaults to a stdlib-backed logger at info
// level. Applications can swap in the golog-backed logger or any custom
// implementation of the Logger interface:
//
//	log.SetDefaultLogger(log.NewGologLogger(golog.Default))
//	log.SetLogLevel(log.LogLevelDebug)
//
// # Log Levels
//
// The package supports five log levels, in order of increasing severity:
//
//   - LogLevelDebug: Detailed debugging information for development
//   - LogLevelInfo: General informational messages about normal operation
//   - LogLevelWarn: Warning messages for potentially problematic situations
//   - LogLevelError: Error messages for failures that need attention
//   - LogLevelNone: Disables all logging output
//
// # Example Usage
//
//	logger := log.NewDefaultLogger(log.LogLevelInfo)
//	logger.Info("replenisher started, interval=%v", interval)
//	logger.Warn("rate limit hit, sleeping %v before retry", delay)
//	logger.Error("api call failed: %v", err)
//
// Custom output destinations are supported through NewCustomLogger:
//
//	f, _ := os.OpenFile("lionago.log", os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
//	logger := log.NewCustomLogger(f, log.LogLevelDebug)
//
// # golog Integration
//
// For users who prefer github.com/kataras/golog, a minimal wrapper is
// provided:
//
//	glogger := golog.New()
//	glogger.SetPrefix("[myapp] ")
//	logger := log.NewGologLogger(glogger)
//
// The DefaultLogger implementation is safe for concurrent use; the
// underlying stdlib log.Logger handles synchronization internally.
package log
