// backend/internal/attempt/reaper.go
package attempt

import (
	"context"
	"log"
	"time"
)

const reapBatchSize = 100

type abandonedDeleter interface {
	DeleteAbandoned(ctx context.Context, cutoff time.Time, limit int) (int64, error)
}

// StartReaper deletes unsubmitted attempts whose time limit ran out more than grace
// ago. It runs every interval until ctx is cancelled.
func StartReaper(ctx context.Context, repo abandonedDeleter, interval, grace time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			reapOnce(ctx, repo, time.Now().Add(-grace))

			select {
			case <-ctx.Done():
				log.Println("[CLEANUP] Attempt reaper stopped")
				return
			case <-ticker.C:
			}
		}
	}()
}

func reapOnce(ctx context.Context, repo abandonedDeleter, cutoff time.Time) int64 {
	var total int64
	for {
		n, err := repo.DeleteAbandoned(ctx, cutoff, reapBatchSize)
		if err != nil {
			log.Printf("[CLEANUP ERROR] Failed to delete abandoned attempts: %v", err)
			return total
		}
		total += n
		if n < reapBatchSize {
			break
		}
	}
	if total > 0 {
		log.Printf("[CLEANUP] Deleted %d abandoned attempts", total)
	}
	return total
}
