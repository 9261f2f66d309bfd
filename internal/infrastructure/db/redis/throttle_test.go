package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
)

func newTestThrottle(t *testing.T, maxAttempts int, window time.Duration) (*LoginThrottle, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewLoginThrottle(client, maxAttempts, window), mr
}

func TestLoginThrottle_AllowsUnderLimit(t *testing.T) {
	throttle, _ := newTestThrottle(t, 3, time.Minute)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		ok, err := throttle.Allowed(ctx, "alice")
		if err != nil {
			t.Fatalf("allowed: %v", err)
		}
		if !ok {
			t.Fatalf("attempt %d should be allowed", i)
		}
		if err := throttle.RecordFailure(ctx, "alice"); err != nil {
			t.Fatalf("record failure: %v", err)
		}
	}
}

func TestLoginThrottle_BlocksAtLimit(t *testing.T) {
	throttle, _ := newTestThrottle(t, 3, time.Minute)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if err := throttle.RecordFailure(ctx, "alice"); err != nil {
			t.Fatalf("record failure: %v", err)
		}
	}

	ok, err := throttle.Allowed(ctx, "alice")
	if err != nil {
		t.Fatalf("allowed: %v", err)
	}
	if ok {
		t.Fatalf("expected alice to be throttled after 3 failures")
	}

	// Other usernames are unaffected.
	ok, err = throttle.Allowed(ctx, "bob")
	if err != nil {
		t.Fatalf("allowed: %v", err)
	}
	if !ok {
		t.Fatalf("bob should not be throttled")
	}
}

func TestLoginThrottle_ResetClearsCount(t *testing.T) {
	throttle, _ := newTestThrottle(t, 1, time.Minute)
	ctx := context.Background()

	if err := throttle.RecordFailure(ctx, "alice"); err != nil {
		t.Fatalf("record failure: %v", err)
	}
	if ok, _ := throttle.Allowed(ctx, "alice"); ok {
		t.Fatalf("expected throttled")
	}
	if err := throttle.Reset(ctx, "alice"); err != nil {
		t.Fatalf("reset: %v", err)
	}
	if ok, _ := throttle.Allowed(ctx, "alice"); !ok {
		t.Fatalf("expected allowed after reset")
	}
}

func TestLoginThrottle_WindowExpiry(t *testing.T) {
	throttle, mr := newTestThrottle(t, 1, time.Minute)
	ctx := context.Background()

	if err := throttle.RecordFailure(ctx, "alice"); err != nil {
		t.Fatalf("record failure: %v", err)
	}
	if ok, _ := throttle.Allowed(ctx, "alice"); ok {
		t.Fatalf("expected throttled")
	}

	mr.FastForward(2 * time.Minute)

	if ok, _ := throttle.Allowed(ctx, "alice"); !ok {
		t.Fatalf("expected allowed after window expiry")
	}
}
