package reconcile

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Manage runs one Worker per active household. The household list is
// re-scanned on the given interval so households founded at runtime get
// a worker without a restart. Blocks until ctx is cancelled and every
// worker has returned.
func (w *Worker) Manage(ctx context.Context, rescan time.Duration) {
	var wg sync.WaitGroup
	running := make(map[string]struct{})

	spawn := func() {
		ids, err := w.db.ListHouseholdIDs()
		if err != nil {
			w.logger.Warn("reconcile: list households failed", slog.String("error", err.Error()))
			return
		}
		for _, id := range ids {
			if _, ok := running[id]; ok {
				continue
			}
			running[id] = struct{}{}
			wg.Add(1)
			go func(householdID string) {
				defer wg.Done()
				w.Run(ctx, householdID)
			}(id)
		}
	}

	spawn()
	ticker := time.NewTicker(rescan)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			wg.Wait()
			return
		case <-ticker.C:
			spawn()
		}
	}
}
