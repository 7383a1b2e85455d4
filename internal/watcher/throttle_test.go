package watcher

import (
	"context"
	"testing"
	"time"
)

func TestThrottleBurstThenRefill(t *testing.T) {
	th := NewThrottle(10, 2)

	if !th.Allow() {
		t.Error("expected first rebuild to pass")
	}
	if !th.Allow() {
		t.Error("expected second rebuild to pass within burst")
	}
	if th.Allow() {
		t.Error("expected third rebuild to be held, burst spent")
	}

	time.Sleep(150 * time.Millisecond)
	if !th.Allow() {
		t.Error("expected a rebuild slot to refill after waiting")
	}
}

func TestThrottleWaitHonorsContext(t *testing.T) {
	th := NewThrottle(0.1, 1) // one rebuild per ten seconds
	if err := th.Wait(context.Background()); err != nil {
		t.Fatalf("Wait on a full bucket failed: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()
	if err := th.Wait(ctx); err == nil {
		t.Fatal("expected Wait on a spent throttle to fail once the context expired")
	}
}
