// Package logging provides a minimal logging interface and adapters for smartpup.
//
// The Logger interface defines the standard logging methods (Debug, Info, Warn,
// Error) taking slog style key/value pairs. The orchestrator, the capability
// registry and the built-in capabilities depend only on that interface. This
// package includes:
//
//   - Logger interface for dependency injection
//   - SlogAdapter wrapping an existing *slog.Logger
//   - PupLogger, a slog backed Logger that ForRun scopes to a single pup run
//   - NoOpLogger for silent operation (testing, minimal setups)
//
// Usage:
//
//	logger := logging.NewSlogLogger(logging.LogLevelInfo, "json", false)
//	p, err := pup.New(m, func(o *pup.Options) { o.Logger = logger })
package logging
