package job

import (
	"context"
	"time"

	"github.com/hibiken/asynq"

	"aic-hub-backend/internal/domains/auth"
	"aic-hub-backend/pkg/logger"
)

// AttemptRetention is how long audit rows are kept. Rate limit windows are
// minutes, so anything older only serves forensics.
const AttemptRetention = 30 * 24 * time.Hour

// CleanupHandler prunes expired auth attempt rows.
type CleanupHandler struct {
	repo auth.Repository
}

func NewCleanupHandler(repo auth.Repository) *CleanupHandler {
	return &CleanupHandler{repo: repo}
}

func (h *CleanupHandler) ProcessTask(ctx context.Context, task *asynq.Task) error {
	cutoff := time.Now().Add(-AttemptRetention)

	deleted, err := h.repo.DeleteAttemptsBefore(ctx, cutoff)
	if err != nil {
		logger.Error("auth attempt cleanup failed", err)
		return err
	}

	logger.Info("auth attempts cleaned up", map[string]interface{}{
		"deleted": deleted,
		"cutoff":  cutoff.Format(time.RFC3339),
	})
	return nil
}
