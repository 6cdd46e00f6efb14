package pkghttp

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"
)

// Config controls the retry behavior of the shared HTTP client.
type Config struct {
	// MaxRetries is the retry ceiling per request.
	MaxRetries int
	// BackoffFactor scales the exponential backoff, in seconds per step.
	BackoffFactor float64
	// MaxBackoff caps the wait between attempts.
	MaxBackoff time.Duration
	// RetryStatuses lists the response status codes that trigger a retry.
	RetryStatuses []int
}

// NewClient builds a *http.Client with the configured retry policy.
func NewClient(cfg Config) *http.Client {
	rc := retryablehttp.NewClient()
	rc.RetryMax = cfg.MaxRetries
	rc.Logger = slogAdapter{}

	if cfg.BackoffFactor > 0 {
		rc.RetryWaitMin = time.Duration(cfg.BackoffFactor * float64(time.Second))
	}
	if cfg.MaxBackoff > 0 {
		rc.RetryWaitMax = cfg.MaxBackoff
	}

	if len(cfg.RetryStatuses) > 0 {
		retryable := make(map[int]struct{}, len(cfg.RetryStatuses))
		for _, status := range cfg.RetryStatuses {
			retryable[status] = struct{}{}
		}
		rc.CheckRetry = statusRetryPolicy(retryable)
	}

	return rc.StandardClient()
}

// statusRetryPolicy retries connection-level failures per the default policy
// and responses only when their status is in the configured set.
func statusRetryPolicy(retryable map[int]struct{}) retryablehttp.CheckRetry {
	return func(ctx context.Context, resp *http.Response, err error) (bool, error) {
		if ctx.Err() != nil {
			return false, ctx.Err()
		}

		if err != nil || resp == nil {
			return retryablehttp.DefaultRetryPolicy(ctx, resp, err)
		}

		_, ok := retryable[resp.StatusCode]
		return ok, nil
	}
}

// slogAdapter forwards retryablehttp's leveled logs to the default slog logger.
type slogAdapter struct{}

func (slogAdapter) Error(msg string, keysAndValues ...any) {
	slog.Error(msg, keysAndValues...)
}

func (slogAdapter) Warn(msg string, keysAndValues ...any) {
	slog.Warn(msg, keysAndValues...)
}

func (slogAdapter) Info(msg string, keysAndValues ...any) {
	slog.Info(msg, keysAndValues...)
}

func (slogAdapter) Debug(msg string, keysAndValues ...any) {
	slog.Debug(msg, keysAndValues...)
}

var _ retryablehttp.LeveledLogger = slogAdapter{}
