package limiter

import (
	"testing"
	"time"
)

func TestAllowBurstThenDeny(t *testing.T) {
	set := New(1, time.Hour, 3)

	for i := 0; i < 3; i++ {
		if !set.Allow("10.0.0.1") {
			t.Fatalf("Allow() call %d denied within burst", i+1)
		}
	}
	if set.Allow("10.0.0.1") {
		t.Error("Allow() should deny once the burst is spent")
	}
}

func TestKeysAreIndependent(t *testing.T) {
	set := New(1, time.Hour, 1)

	if !set.Allow("a") {
		t.Fatal("Allow(a) denied on first call")
	}
	if !set.Allow("b") {
		t.Error("Allow(b) should not share the bucket of a")
	}
	if set.Allow("a") {
		t.Error("Allow(a) should be denied on second call")
	}
	if got := set.Len(); got != 2 {
		t.Errorf("Len() = %d, want 2", got)
	}
}

func TestGetReturnsSameLimiter(t *testing.T) {
	set := New(10, time.Second, 5)
	if set.Get("k") != set.Get("k") {
		t.Error("Get() should return the same limiter for the same key")
	}
}

func TestNewClampsInvalidValues(t *testing.T) {
	set := New(0, time.Second, 0)
	if set.burst != 1 {
		t.Errorf("burst = %d, want 1", set.burst)
	}
	if set.every != time.Second {
		t.Errorf("every = %v, want 1s", set.every)
	}
}

func TestPruneDropsRefilledKeys(t *testing.T) {
	set := New(1, time.Hour, 1)

	set.Allow("a")
	set.Allow("b")
	set.Get("idle")

	if got := set.Prune(time.Now()); got != 1 {
		t.Errorf("Prune(now) = %d, want 1 (only the unused key is full)", got)
	}
	if got := set.Len(); got != 2 {
		t.Fatalf("Len() = %d after first prune, want 2", got)
	}
	if set.Allow("a") {
		t.Error("pruning must not reset a spent bucket")
	}

	if got := set.Prune(time.Now().Add(2 * time.Hour)); got != 2 {
		t.Errorf("Prune(+2h) = %d, want 2", got)
	}
	if got := set.Len(); got != 0 {
		t.Errorf("Len() = %d, want 0", got)
	}
}
