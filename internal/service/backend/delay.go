// internal/service/backend/delay.go
package backend

import (
	"context"
	"time"
)

// wait simulates network latency and gives up when the caller does.
func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
