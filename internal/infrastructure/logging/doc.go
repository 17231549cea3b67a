// Package logging provides structured logging for smartdash.
//
// This package wraps Go's standard log/slog package to provide
// consistent, structured logging across the entire tool.
//
// # Features
//
//   - Text output for interactive use (human-readable)
//   - JSON output for automation (machine-parsable)
//   - Default fields (service, version) on all log entries
//   - Level-based filtering (debug, info, warn, error)
//   - Thread-safe for concurrent use
//
// # Configuration
//
// Logging is configured via the LoggingConfig in the tool settings:
//
//	logging:
//	  level: "info"      # debug, info, warn, error
//	  format: "text"     # text, json
//	  output: "stderr"   # stderr, stdout
//
// # Usage
//
//	logger := logging.New(cfg.Logging, "1.0.0")
//	logger.Info("dashboard generated", "views", 4)
//	logger.Error("failed to connect", "error", err)
//
// Logs default to stderr so generated output written to stdout stays
// clean. Never log secrets, tokens, passwords, or API keys.
package logging
