package tag

import (
	"context"
)

// Service exposes the tag read API and the periodic maintenance operations
// the worker invokes.
type Service interface {
	ListTags(ctx context.Context, filter *ListFilter) ([]TagResponse, error)
	GetTag(ctx context.Context, name string) (*TagResponse, error)
	SuggestTags(ctx context.Context, req *SuggestRequest) (*SuggestResponse, error)

	// CalculateTrendingScores recalculates and persists every tag's score.
	// Run hourly by the worker.
	CalculateTrendingScores(ctx context.Context) error

	// ResetPeriodicCounts zeroes the weekly/monthly counters. Run by cron.
	ResetPeriodicCounts(ctx context.Context, period ResetPeriod) error
}
