package logging

import (
	"context"
	"log/slog"
	"time"

	"github.com/ahmetcoskunkizilkaya/municipal-backend/internal/models"
	"gorm.io/gorm"
)

const logRetention = 30 * 24 * time.Hour

// ExpiredSessionSweeper is implemented by session stores that persist rows.
type ExpiredSessionSweeper interface {
	DeleteExpired(ctx context.Context) (int64, error)
}

// StartCleanup runs a daily goroutine that deletes system_logs older than
// 30 days and, when sessions is not nil, expired session rows.
func StartCleanup(db *gorm.DB, sessions ExpiredSessionSweeper, done chan struct{}) {
	go func() {
		ticker := time.NewTicker(24 * time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				runCleanup(db, sessions, time.Now())
			case <-done:
				return
			}
		}
	}()
}

func runCleanup(db *gorm.DB, sessions ExpiredSessionSweeper, now time.Time) {
	cutoff := now.Add(-logRetention).UTC()
	result := db.Where("timestamp < ?", cutoff).Delete(&models.SystemLog{})
	if result.Error != nil {
		slog.Error("log cleanup failed", "error", result.Error)
	} else if result.RowsAffected > 0 {
		slog.Info("log cleanup completed", "deleted", result.RowsAffected)
	}

	if sessions == nil {
		return
	}
	n, err := sessions.DeleteExpired(context.Background())
	if err != nil {
		slog.Error("session cleanup failed", "error", err)
	} else if n > 0 {
		slog.Info("expired sessions removed", "deleted", n)
	}
}
