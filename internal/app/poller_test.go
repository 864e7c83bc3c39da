package app

import (
	"context"
	"sync/atomic"
	"testing"
	"time"
)

type countingRefresher struct {
	calls atomic.Int32
}

func (c *countingRefresher) Refresh(ctx context.Context) error {
	c.calls.Add(1)
	return nil
}

func TestStartPoller_RefreshesUntilCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	r := &countingRefresher{}

	StartPoller(ctx, r, 5*time.Millisecond)

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) && r.calls.Load() < 2 {
		time.Sleep(time.Millisecond)
	}
	if got := r.calls.Load(); got < 2 {
		t.Fatalf("refresh calls = %d, want at least 2", got)
	}

	cancel()
	time.Sleep(20 * time.Millisecond)
	stopped := r.calls.Load()
	time.Sleep(30 * time.Millisecond)
	if got := r.calls.Load(); got != stopped {
		t.Fatalf("refresh calls went from %d to %d after cancel", stopped, got)
	}
}

func TestStartPoller_DisabledForZeroInterval(t *testing.T) {
	r := &countingRefresher{}
	StartPoller(context.Background(), r, 0)
	time.Sleep(20 * time.Millisecond)
	if got := r.calls.Load(); got != 0 {
		t.Fatalf("refresh calls = %d, want 0 when disabled", got)
	}
}
