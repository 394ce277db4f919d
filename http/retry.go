package http

import (
	"context"

	"github.com/failsafe-go/failsafe-go"
	"github.com/failsafe-go/failsafe-go/retrypolicy"

	"github.com/gameup-io/gameup-go/http/internal/tracking"
)

// retryPolicy builds the per-call policy. Only gateway timeouts are handled,
// and the budget is what the Request has left so a reused Request never
// exceeds MaxRetries in total.
func (e *executor) retryPolicy(ctx context.Context, req *Request, requestID string) retrypolicy.RetryPolicy[string] {
	builder := retrypolicy.NewBuilder[string]().
		HandleIf(func(_ string, err error) bool {
			return IsTransient(err)
		}).
		WithMaxRetries(req.remainingRetries(e.config.MaxRetries)).
		OnRetry(func(_ failsafe.ExecutionEvent[string]) {
			req.markRetry(e.config.MaxRetries)
			tracking.RecordRetry(ctx, req.Method())
			e.logger.Warn().
				Str("request_id", requestID).
				Str("method", req.Method()).
				Str("url", req.URL()).
				Int("retry", req.Retries()).
				Msg("Retrying GameUp request after gateway timeout")
		}).
		ReturnLastFailure()

	if e.config.RetryMaxDelay > e.config.RetryMinDelay {
		builder = builder.WithRandomDelay(e.config.RetryMinDelay, e.config.RetryMaxDelay)
	} else if e.config.RetryMinDelay > 0 {
		builder = builder.WithDelay(e.config.RetryMinDelay)
	}
	return builder.Build()
}

// runWithRetries executes attempt under the retry policy.
func (e *executor) runWithRetries(ctx context.Context, req *Request, requestID string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", NewTransportError(err.Error(), 0, err)
	}
	if !e.config.RetriesEnabled || req.remainingRetries(e.config.MaxRetries) == 0 {
		return e.attempt(ctx, req, requestID)
	}

	policy := e.retryPolicy(ctx, req, requestID)
	payload, err := failsafe.With(policy).WithContext(ctx).Get(func() (string, error) {
		return e.attempt(ctx, req, requestID)
	})
	if err != nil {
		if _, ok := StatusCode(err); !ok {
			// cancellation while waiting between attempts
			if ctxErr := ctx.Err(); ctxErr != nil {
				err = ctxErr
			}
			return "", NewTransportError(err.Error(), 0, err)
		}
		return "", err
	}
	return payload, nil
}
