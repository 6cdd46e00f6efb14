package pkglog

import "context"

type runIDContextKey struct{}

// GetRunID returns the run ID stored in the context, or "" when unset.
//
// The command layer is expected to set this value once at startup so it can
// be attached to every log record of the pass.
func GetRunID(ctx context.Context) string {
	runID, ok := ctx.Value(runIDContextKey{}).(string)
	if !ok {
		return ""
	}
	return runID
}

// SetRunID stores a run ID into the context.
func SetRunID(ctx context.Context, runID string) context.Context {
	return context.WithValue(ctx, runIDContextKey{}, runID)
}
