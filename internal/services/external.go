package services

import (
	"context"
	"errors"
	"time"

	"github.com/DevByte-Community/Community-API-Backend-sub000/domain"
)

// DefaultExternalTimeout bounds every store, cache, hash and email call.
const DefaultExternalTimeout = 5 * time.Second

// callExternal runs fn under timeout on a context that ignores the caller's
// cancellation, so an aborted request does not abort a half-done side effect.
// Hitting the deadline yields a retryable internal error.
func callExternal[T any](ctx context.Context, timeout time.Duration, op string, fn func(context.Context) (T, error)) (T, error) {
	if timeout <= 0 {
		timeout = DefaultExternalTimeout
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeout)
	defer cancel()

	type result struct {
		val T
		err error
	}
	done := make(chan result, 1)
	go func() {
		v, err := fn(ctx)
		done <- result{v, err}
	}()

	select {
	case r := <-done:
		if r.err != nil && errors.Is(r.err, context.DeadlineExceeded) {
			var zero T
			return zero, domain.Timeout(op+" timed out", r.err)
		}
		return r.val, r.err
	case <-ctx.Done():
		var zero T
		return zero, domain.Timeout(op+" timed out", ctx.Err())
	}
}

// callExternalErr is callExternal for calls with no result
func callExternalErr(ctx context.Context, timeout time.Duration, op string, fn func(context.Context) error) error {
	_, err := callExternal(ctx, timeout, op, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, fn(ctx)
	})
	return err
}

// internalError keeps classified errors as they are and wraps everything else.
func internalError(msg string, err error) error {
	var de *domain.Error
	if errors.As(err, &de) {
		return err
	}
	return domain.Internal(msg, err)
}
