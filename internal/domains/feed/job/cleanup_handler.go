package job

import (
	"context"
	"time"

	"github.com/hibiken/asynq"

	"aic-hub-backend/internal/domains/feed"
	"aic-hub-backend/pkg/logger"
)

// ActivityRetention bounds the activity table. Streams and trending only
// look weeks back, so older rows just slow the queries down.
const ActivityRetention = 90 * 24 * time.Hour

// CleanupHandler prunes expired activity rows.
type CleanupHandler struct {
	repo feed.Repository
}

func NewCleanupHandler(repo feed.Repository) *CleanupHandler {
	return &CleanupHandler{repo: repo}
}

func (h *CleanupHandler) ProcessTask(ctx context.Context, task *asynq.Task) error {
	cutoff := time.Now().Add(-ActivityRetention)

	deleted, err := h.repo.DeleteActivitiesBefore(ctx, cutoff)
	if err != nil {
		logger.Error("activity cleanup failed", err)
		return err
	}

	logger.Info("activities cleaned up", map[string]interface{}{
		"deleted": deleted,
		"cutoff":  cutoff.Format(time.RFC3339),
	})
	return nil
}
