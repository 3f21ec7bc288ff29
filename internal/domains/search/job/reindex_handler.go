package job

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	"aic-hub-backend/internal/domains/search"
	"aic-hub-backend/pkg/logger"
)

// ReindexPayload identifies the entity whose index row should be rebuilt.
type ReindexPayload struct {
	EntityType string    `json:"entity_type"`
	EntityID   uuid.UUID `json:"entity_id"`
}

// ReindexHandler rebuilds a single search_index row from its source table.
type ReindexHandler struct {
	repo search.Repository
}

func NewReindexHandler(repo search.Repository) *ReindexHandler {
	return &ReindexHandler{repo: repo}
}

func (h *ReindexHandler) ProcessTask(ctx context.Context, task *asynq.Task) error {
	var payload ReindexPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Error("invalid reindex payload", err)
		return err
	}

	err := h.repo.RebuildEntry(ctx, search.EntityType(payload.EntityType), payload.EntityID)
	if errors.Is(err, search.ErrEntityNotFound) {
		// The source row is gone; RebuildEntry already removed the
		// stale index entry, so there is nothing to retry.
		logger.Info("reindex target no longer exists", map[string]interface{}{
			"entity_type": payload.EntityType,
			"entity_id":   payload.EntityID.String(),
		})
		return nil
	}
	if err != nil {
		logger.Error("search reindex failed", err)
		return err
	}

	logger.Info("search index entry rebuilt", map[string]interface{}{
		"entity_type": payload.EntityType,
		"entity_id":   payload.EntityID.String(),
	})
	return nil
}
