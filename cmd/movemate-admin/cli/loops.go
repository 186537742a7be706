package cli

import (
	"context"
	"log/slog"
	"time"

	"movemate-admin/internal/httpapi"
	"movemate-admin/internal/metrics"
	"movemate-admin/internal/store"
)

// runPurgeLoop clears expired reset tickets once at start and then every
// interval until ctx is done.
func runPurgeLoop(ctx context.Context, purger store.TicketPurger, interval time.Duration, logger *slog.Logger, m *metrics.Metrics) {
	if interval <= 0 {
		interval = 10 * time.Minute
	}

	runOnce := func() {
		before := time.Now().UTC()
		ctxPurge, cancel := context.WithTimeout(ctx, 30*time.Second)
		defer cancel()

		n, err := purger.PurgeExpiredResetTickets(ctxPurge, before)
		if err != nil {
			logger.Warn("reset ticket purge failed", "error", err)
			return
		}
		m.Purged(n)
		if n > 0 {
			logger.Info("purged expired reset tickets", "count", n)
		}
	}

	runOnce()

	t := time.NewTicker(interval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			runOnce()
		}
	}
}

// runSweepLoop forgets idle in-process sessions and, for the memory
// storage, drops expired keys.
func runSweepLoop(ctx context.Context, srv *httpapi.Server, sweepStorage func() int, idle time.Duration, logger *slog.Logger) {
	if idle <= 0 {
		idle = time.Hour
	}
	interval := idle / 4
	if interval < time.Minute {
		interval = time.Minute
	}

	t := time.NewTicker(interval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			sessions := srv.SweepSessions(idle)
			keys := 0
			if sweepStorage != nil {
				keys = sweepStorage()
			}
			if sessions > 0 || keys > 0 {
				logger.Debug("swept idle client state", "sessions", sessions, "keys", keys)
			}
		}
	}
}
