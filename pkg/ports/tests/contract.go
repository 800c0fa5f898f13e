package tests

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aretw0/recolor/pkg/domain"
	"github.com/aretw0/recolor/pkg/ports"
)

// LockerContractTest is a reusable test suite that verifies if an adapter complies with ports.Locker.
func LockerContractTest(t *testing.T, locker ports.Locker) {
	t.Helper()
	ctx := context.Background()

	// 1. Acquire and release
	t.Run("Lock_Unlock", func(t *testing.T) {
		unlock, err := locker.TryLock(ctx, "scene-a", time.Minute)
		if err != nil {
			t.Fatalf("unexpected error acquiring lock: %v", err)
		}
		if err := unlock(ctx); err != nil {
			t.Fatalf("unexpected error releasing lock: %v", err)
		}
	})

	// 2. Second holder is rejected
	t.Run("Lock_Busy", func(t *testing.T) {
		unlock, err := locker.TryLock(ctx, "scene-b", time.Minute)
		if err != nil {
			t.Fatalf("unexpected error acquiring lock: %v", err)
		}
		defer unlock(ctx)

		_, err = locker.TryLock(ctx, "scene-b", time.Minute)
		if !errors.Is(err, domain.ErrRunInProgress) {
			t.Errorf("expected ErrRunInProgress for a held lock, got %v", err)
		}
	})

	// 3. Released lock can be taken again
	t.Run("Lock_Reacquire", func(t *testing.T) {
		unlock, err := locker.TryLock(ctx, "scene-c", time.Minute)
		if err != nil {
			t.Fatalf("unexpected error acquiring lock: %v", err)
		}
		_ = unlock(ctx)

		unlock, err = locker.TryLock(ctx, "scene-c", time.Minute)
		if err != nil {
			t.Errorf("expected lock to be free after release, got %v", err)
			return
		}
		_ = unlock(ctx)
	})

	// 4. Keys are independent
	t.Run("Independent_Keys", func(t *testing.T) {
		u1, err := locker.TryLock(ctx, "scene-d", time.Minute)
		if err != nil {
			t.Fatalf("unexpected error acquiring lock: %v", err)
		}
		defer u1(ctx)
		u2, err := locker.TryLock(ctx, "scene-e", time.Minute)
		if err != nil {
			t.Errorf("distinct keys should not contend, got %v", err)
			return
		}
		_ = u2(ctx)
	})
}
