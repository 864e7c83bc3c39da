package app

import (
	"context"
	"time"

	"github.com/five82/bookshelf/internal/state"
)

// refresher is the part of state.Store the poller drives.
type refresher interface {
	Refresh(ctx context.Context) error
}

var _ refresher = (*state.Store)(nil)

// StartPoller launches a background goroutine that refreshes the collection
// every interval until ctx is done. A non-positive interval disables it. The
// store logs failed refreshes, so the poller just keeps going.
func StartPoller(ctx context.Context, store refresher, interval time.Duration) {
	if interval <= 0 {
		return
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				_ = store.Refresh(ctx)
			}
		}
	}()
}
