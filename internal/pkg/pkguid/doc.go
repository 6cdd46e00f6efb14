// Package pkguid provides helpers for generating unique identifiers.
//
// The codebase uses these interfaces to avoid hard-coding a specific UID
// strategy. Depending on the use case you can generate:
//   - String IDs (UUIDs, used for run correlation).
//   - Numeric IDs (Snowflake-style, used for progress event deduplication).
package pkguid
