package cli

import (
	"context"
	"time"
)

const (
	// pingTimeout bounds a single health probe.
	pingTimeout = 3 * time.Second

	defaultCheckInterval = 5 * time.Second
)

// StartOnlineStatusWatcher pings the server every interval and switches the
// app between online and offline mode. It returns when ctx is done. A
// non-positive interval falls back to defaultCheckInterval.
func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		a.logger.Warn(ctx, "invalid online check interval, using default", "interval", interval, "default", defaultCheckInterval)
		interval = defaultCheckInterval
	}

	a.checkOnline(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			a.checkOnline(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func (a *App) checkOnline(ctx context.Context) {
	pctx, cancel := context.WithTimeout(ctx, pingTimeout)
	err := a.authService.Ping(pctx)
	cancel()

	if err != nil {
		a.logger.Debug(ctx, "health check failed", "error", err)
		a.setMode(ModeOffline)
		return
	}
	a.setMode(ModeOnline)
}
