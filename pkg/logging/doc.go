// Package logging provides structured logging utilities for recipekit.
//
// # Overview
//
// This package wraps the standard library slog package with recipekit defaults
// and conventions for consistent logging across all components. It supports
// environment-based log level configuration, module/version context injection,
// and automatic source location tracking for debug logs.
//
// # Features
//
//   - Structured JSON logging to stderr
//   - Environment-based log level configuration (LOG_LEVEL)
//   - Automatic module and version context
//   - Source location tracking for debug logs
//   - Flexible log level parsing
//   - Integration with standard library log package
//
// # Log Levels
//
// Supported log levels (case-insensitive):
//   - DEBUG: Detailed diagnostic information with source location
//   - INFO: General informational messages (default)
//   - WARN/WARNING: Warning messages for potentially problematic situations
//   - ERROR: Error messages for failures requiring attention
//
// # Usage
//
// Setting the default logger (recommended):
//
//	func main() {
//	    logging.SetDefaultStructuredLoggerWithLevel("recipekit", "v1.0.0", os.Getenv(logging.EnvLogLevel))
//	    defer slog.Info("application started")
//
//	    // Use slog as normal
//	    slog.Info("rendering recipe", "path", "meta.yaml")
//	    slog.Debug("namespace", "data", ns)
//	    slog.Error("operation failed", "error", err)
//	}
//
// Creating a custom logger:
//
//	logger := logging.NewStructuredLogger("recipekit", "v0.1.0", "debug")
//	logger.Info("rendering recipe", "path", "meta.yaml")
//
// Setting explicit log level:
//
//	logging.SetDefaultStructuredLoggerWithLevel("cli", "v1.0.0", "warn")
//
// # Environment Configuration
//
// The LOG_LEVEL environment variable controls logging verbosity:
//
//	LOG_LEVEL=debug recipekit render --file meta.yaml
//	LOG_LEVEL=error recipekit lint --glob 'recipes/**/meta.yaml'
//
// If LOG_LEVEL is not set, defaults to INFO level.
//
// # Output Format
//
// All logs are written to stderr in JSON format:
//
//	{
//	    "time": "2025-01-15T10:30:00.123Z",
//	    "level": "INFO",
//	    "msg": "recipe parsed",
//	    "module": "recipekit",
//	    "version": "v1.0.0",
//	    "path": "meta.yaml"
//	}
//
// Debug logs include source location:
//
//	{
//	    "time": "2025-01-15T10:30:00.123Z",
//	    "level": "DEBUG",
//	    "source": {
//	        "function": "metadata.(*MetaData).ParseAgain",
//	        "file": "metadata.go",
//	        "line": 45
//	    },
//	    "msg": "reconciled dependency",
//	    "module": "recipekit",
//	    "version": "v1.0.0"
//	}
//
// # Best Practices
//
// 1. Set default logger early in main():
//
//	func main() {
//	    logging.SetDefaultStructuredLoggerWithLevel("myapp", version, os.Getenv(logging.EnvLogLevel))
//	    defer slog.Info("application started")
//	    // ...
//	}
//
// 2. Include context in log messages:
//
//	slog.Info("recipe rendered",
//	    "name", m.Name(),
//	    "path", path,
//	    "duration_ms", 12,
//	)
//
// 3. Use appropriate log levels:
//
//	slog.Debug("pinned", "spec", ms)      // Development/troubleshooting
//	slog.Info("recipe rendered")          // Normal operations
//	slog.Warn("unknown selector")         // Potential issues
//	slog.Error("recipe failed to parse")  // Errors requiring action
//
// 4. Log errors with context:
//
//	slog.Error("failed to render recipe",
//	    "error", err,
//	    "path", path,
//	)
//
// # Integration
//
// This package is used by:
//   - pkg/cli - CLI command logging
//   - pkg/metadata - recipe parse logging
//   - pkg/pin - version reconciliation logging
package logging
