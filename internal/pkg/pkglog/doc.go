// Package pkglog contains logging helpers used across the application.
//
// It is built around slog and keeps logs consistent by:
//   - Initializing a JSON handler with stable keys.
//   - Attaching the run ID (when present in the context) to each log record,
//     so every line of a discovery/import pass can be correlated.
package pkglog
