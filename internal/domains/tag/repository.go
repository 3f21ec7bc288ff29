package tag

import (
	"context"

	"github.com/jackc/pgx/v5"
)

// Repository is the data access contract for tag usage rows.
//
// ApplyDelta is transaction-scoped: content services call it inside the same
// transaction that mutates the article/space/user row, so counters never
// drift from the content they describe.
type Repository interface {
	// ApplyDelta upserts the usage row and adjusts one counter, clamping at
	// zero. A positive delta also bumps last_used_at and the periodic counts.
	// Tags outside the taxonomy are a silent no-op.
	ApplyDelta(ctx context.Context, tx pgx.Tx, tag string, kind EntityKind, delta int) error

	GetUsage(ctx context.Context, tag string) (*TagUsage, error)
	ListUsage(ctx context.Context, filter *ListFilter) ([]TagUsage, error)

	// UpdateTrendingScore persists a recalculated score for one tag.
	UpdateTrendingScore(ctx context.Context, tag string, score float64) error

	// ResetPeriodicCounts zeroes week_count (week) or both week_count and
	// month_count (month).
	ResetPeriodicCounts(ctx context.Context, period ResetPeriod) error
}
