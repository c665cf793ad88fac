package workers

import (
	"time"

	"fixer_backend/internal/logger"
	"fixer_backend/internal/repositories"

	"gorm.io/gorm"
)

const (
	cleanupInterval = time.Hour

	// Jobs still open after this long are expired.
	staleJobAge = 30 * 24 * time.Hour
)

// CleanupWorker sweeps expired refresh tokens and stale jobs on a
// fixed interval.
type CleanupWorker struct {
	db               *gorm.DB
	refreshTokenRepo repositories.RefreshTokenRepository
	jobRepo          repositories.JobRepository
	stop             chan struct{}
}

func NewCleanupWorker(db *gorm.DB) *CleanupWorker {
	return &CleanupWorker{
		db:               db,
		refreshTokenRepo: repositories.NewRefreshTokenRepository(),
		jobRepo:          repositories.NewJobRepository(),
		stop:             make(chan struct{}),
	}
}

func (w *CleanupWorker) Run() {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()

	w.sweep()

	for {
		select {
		case <-ticker.C:
			w.sweep()
		case <-w.stop:
			return
		}
	}
}

func (w *CleanupWorker) Stop() {
	close(w.stop)
}

func (w *CleanupWorker) sweep() {
	now := time.Now()

	deleted, err := w.refreshTokenRepo.DeleteExpired(w.db, now)
	if err != nil {
		logger.Error("cleanup: failed to delete expired refresh tokens", "error", err)
	} else if deleted > 0 {
		logger.Info("cleanup: expired refresh tokens removed", "count", deleted)
	}

	expired, err := w.jobRepo.ExpireStale(w.db, now.Add(-staleJobAge))
	if err != nil {
		logger.Error("cleanup: failed to expire stale jobs", "error", err)
	} else if expired > 0 {
		logger.Info("cleanup: stale jobs expired", "count", expired)
	}
}
