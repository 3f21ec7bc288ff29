package tag

import (
	"fmt"
	"math"
	"time"
)

// EntityKind identifies which counter of a TagUsage row a delta applies to.
type EntityKind string

const (
	KindArticle EntityKind = "article"
	KindSpace   EntityKind = "space"
	KindUser    EntityKind = "user"
)

func (k EntityKind) Valid() bool {
	switch k {
	case KindArticle, KindSpace, KindUser:
		return true
	}
	return false
}

// ResetPeriod selects which periodic counters to reset.
type ResetPeriod string

const (
	PeriodWeek  ResetPeriod = "week"
	PeriodMonth ResetPeriod = "month"
)

// TagUsage tracks usage statistics for one taxonomy tag.
type TagUsage struct {
	Tag           string     `json:"tag"`
	ArticleCount  int        `json:"article_count"`
	SpaceCount    int        `json:"space_count"`
	UserCount     int        `json:"user_count"`
	LastUsedAt    *time.Time `json:"last_used_at"`
	TrendingScore float64    `json:"trending_score"`
	WeekCount     int        `json:"week_count"`
	MonthCount    int        `json:"month_count"`
}

func (u *TagUsage) Total() int {
	return u.ArticleCount + u.SpaceCount + u.UserCount
}

// ComputeTrendingScore combines total usage, recency, and weekly growth:
//
//	log(total+1)*10 + recency*30 + growth*20
//
// where recency decays on a one-week scale (1/(1+hoursSince/168), 0 when the
// tag was never used) and growth compares this week against the monthly
// weekly average, capped at 2x.
func ComputeTrendingScore(u *TagUsage, now time.Time) float64 {
	base := math.Log(float64(u.Total())+1) * 10

	recency := 0.0
	if u.LastUsedAt != nil {
		hoursSince := now.Sub(*u.LastUsedAt).Hours()
		recency = 1 / (1 + hoursSince/168)
	}

	growth := 0.0
	if u.MonthCount > 0 {
		weekRatio := float64(u.WeekCount) / math.Max(1, float64(u.MonthCount)/4)
		growth = math.Min(2.0, weekRatio)
	}

	return base + recency*30 + growth*20
}

// WeeklyGrowth formats week-over-week growth as e.g. "+25%". Returns empty
// when there is not enough history to compare against.
func WeeklyGrowth(weekCount, monthCount int) string {
	if monthCount <= 0 || weekCount <= 0 {
		return ""
	}
	prevWeekAvg := float64(monthCount-weekCount) / 3
	if prevWeekAvg <= 0 {
		return ""
	}
	growthPct := (float64(weekCount) - prevWeekAvg) / prevWeekAvg * 100
	sign := ""
	if growthPct > 0 {
		sign = "+"
	}
	return fmt.Sprintf("%s%.0f%%", sign, growthPct)
}
