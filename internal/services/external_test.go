package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DevByte-Community/Community-API-Backend-sub000/domain"
)

func TestCallExternal(t *testing.T) {
	t.Run("returns the result", func(t *testing.T) {
		v, err := callExternal(context.Background(), time.Second, "op", func(context.Context) (int, error) {
			return 42, nil
		})
		if err != nil || v != 42 {
			t.Fatalf("got (%d, %v)", v, err)
		}
	})

	t.Run("passes errors through", func(t *testing.T) {
		boom := errors.New("boom")
		_, err := callExternal(context.Background(), time.Second, "op", func(context.Context) (int, error) {
			return 0, boom
		})
		if !errors.Is(err, boom) {
			t.Fatalf("expected boom, got %v", err)
		}
	})

	t.Run("deadline yields a retryable error", func(t *testing.T) {
		start := time.Now()
		err := callExternalErr(context.Background(), 10*time.Millisecond, "slow store", func(ctx context.Context) error {
			time.Sleep(200 * time.Millisecond)
			return nil
		})
		if time.Since(start) > 150*time.Millisecond {
			t.Error("caller should not wait for the slow call")
		}
		var de *domain.Error
		if !errors.As(err, &de) || !de.Retryable || de.Message != "slow store timed out" {
			t.Fatalf("unexpected error %v", err)
		}
	})

	t.Run("caller cancellation is ignored", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		err := callExternalErr(ctx, time.Second, "op", func(ctx context.Context) error {
			return ctx.Err()
		})
		if err != nil {
			t.Fatalf("expected nil, got %v", err)
		}
	})

	t.Run("zero timeout uses the default", func(t *testing.T) {
		_, err := callExternal(context.Background(), 0, "op", func(ctx context.Context) (bool, error) {
			deadline, ok := ctx.Deadline()
			if !ok || time.Until(deadline) > DefaultExternalTimeout {
				return false, errors.New("bad deadline")
			}
			return true, nil
		})
		if err != nil {
			t.Fatal(err)
		}
	})
}

func TestInternalError(t *testing.T) {
	if err := internalError("x", domain.ErrEmailTaken); !errors.Is(err, domain.ErrEmailTaken) {
		t.Errorf("classified errors must pass through, got %v", err)
	}
	err := internalError("failed to load", errors.New("io"))
	if domain.KindOf(err) != domain.KindInternal || err.Error() != "failed to load: io" {
		t.Errorf("unexpected %v", err)
	}
}
