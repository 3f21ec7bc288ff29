package shared

// Task type names shared between the API (enqueuer) and the worker.
const (
	TypeRecalculateTrendingTags = "tag:recalculate_trending"
	TypeResetWeeklyTagCounts    = "tag:reset_weekly_counts"
	TypeResetMonthlyTagCounts   = "tag:reset_monthly_counts"
	TypeCleanupAuthAttempts     = "auth:cleanup_attempts"
	TypeCleanupOldActivities    = "feed:cleanup_activities"
	TypeReindexSearch           = "search:reindex"
)

// Queue names, in priority order.
const (
	QueueHigh    = "high"
	QueueDefault = "default"
	QueueLow     = "low"
)
