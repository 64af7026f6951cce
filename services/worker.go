package services

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
)

// StartBulkImportWorker consumes job IDs from the Redis queue until ctx is
// cancelled. It returns immediately; the work happens on its own goroutine.
func StartBulkImportWorker(ctx context.Context, svc *ImportService) {
	if svc == nil || svc.jobs == nil {
		zap.L().Warn("bulk import worker not started: missing dependencies")
		return
	}

	go func() {
		zap.L().Info("bulk import worker started", zap.String("queue", BulkQueueKey), zap.String("dir", svc.cfg.StorageDir))
		for {
			select {
			case <-ctx.Done():
				zap.L().Info("bulk import worker stopping")
				return
			default:
			}

			jobID, err := svc.jobs.Pop(ctx)
			if err != nil {
				if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
					return
				}
				zap.L().Error("redis BLPop failed", zap.Error(err))
				time.Sleep(500 * time.Millisecond)
				continue
			}
			if jobID == "" {
				continue
			}

			if err := svc.RunJob(ctx, jobID); err != nil {
				zap.L().Error("bulk import processing failed", zap.String("job_id", jobID), zap.Error(err))
				continue
			}
			zap.L().Info("bulk import job done", zap.String("job_id", jobID))
		}
	}()
}
