// Package pkgerror defines shared error types and sentinel errors used across
// the application.
//
// It helps keep error handling consistent by:
//   - Providing sentinel errors that can be checked with errors.Is.
//   - Providing a structured Error type that carries a message, type, and code,
//     which the command layer maps to a process exit code. Nothing below the
//     command layer terminates the process.
package pkgerror
