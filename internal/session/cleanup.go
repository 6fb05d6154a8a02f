package session

import (
	"context"
	"log/slog"
	"time"

	"github.com/doguseltetik/ai-social-content-creator/internal/store"
)

const cleanupInterval = time.Hour

// StartCleanupWorker runs a background goroutine that periodically removes
// sessions idle longer than ttl.
func StartCleanupWorker(ctx context.Context, repo store.Repository, ttl time.Duration) {
	ticker := time.NewTicker(cleanupInterval)
	go func() {
		defer ticker.Stop()
		slog.Info("Session cleanup worker started", "interval", cleanupInterval, "ttl", ttl)

		for {
			select {
			case <-ticker.C:
				removed, err := repo.CleanupExpiredSessions(ctx, ttl)
				if err != nil {
					slog.Error("Session cleanup failed", "error", err)
					continue
				}
				if removed > 0 {
					slog.Info("Expired sessions removed", "count", removed)
				}
			case <-ctx.Done():
				slog.Info("Session cleanup worker shutting down", "reason", ctx.Err())
				return
			}
		}
	}()
}
