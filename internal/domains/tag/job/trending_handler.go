package job

import (
	"context"
	"encoding/json"

	"github.com/hibiken/asynq"

	"aic-hub-backend/internal/domains/tag"
	"aic-hub-backend/pkg/logger"
)

type RecalculateTrendingPayload struct{}

type ResetCountsPayload struct {
	Period string `json:"period"`
}

// TrendingHandler processes the periodic tag maintenance tasks.
type TrendingHandler struct {
	service tag.Service
}

func NewTrendingHandler(service tag.Service) *TrendingHandler {
	return &TrendingHandler{service: service}
}

func (h *TrendingHandler) ProcessRecalculate(ctx context.Context, task *asynq.Task) error {
	logger.Info("recalculating tag trending scores", nil)

	if err := h.service.CalculateTrendingScores(ctx); err != nil {
		logger.Error("trending score recalculation failed", err)
		return err
	}
	return nil
}

func (h *TrendingHandler) ProcessResetCounts(ctx context.Context, task *asynq.Task) error {
	var payload ResetCountsPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return err
	}

	logger.Info("resetting periodic tag counts", map[string]interface{}{
		"period": payload.Period,
	})

	if err := h.service.ResetPeriodicCounts(ctx, tag.ResetPeriod(payload.Period)); err != nil {
		logger.Error("periodic count reset failed", err)
		return err
	}
	return nil
}
