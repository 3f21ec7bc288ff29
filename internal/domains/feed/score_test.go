package feed

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTrendingScore_AgeSuppression(t *testing.T) {
	fresh := TrendingScore(100, 1, 0)
	dayOld := TrendingScore(100, 24, 0)

	assert.Greater(t, fresh, dayOld)
	// A day-old article needs far more views to keep up with a fresh one.
	assert.Greater(t, fresh/dayOld, 5.0)
}

func TestTrendingScore_InteractionsWeighDouble(t *testing.T) {
	viewsOnly := TrendingScore(20, 5, 0)
	withInteractions := TrendingScore(0, 5, 10)

	assert.InDelta(t, viewsOnly, withInteractions, 0.0001)
}

func TestTrendingScore_NegativeAgeClamped(t *testing.T) {
	assert.Equal(t, TrendingScore(50, 0, 0), TrendingScore(50, -3, 0))
}

func TestViewVelocity_SubHourFloor(t *testing.T) {
	assert.Equal(t, 60.0, ViewVelocity(60, 0.01))
	assert.Equal(t, 30.0, ViewVelocity(60, 2))
}

func TestSpaceActivityScore_MembersWeighMore(t *testing.T) {
	assert.Greater(t, SpaceActivityScore(10, 0), SpaceActivityScore(0, 10))
	assert.Equal(t, 125.0, SpaceActivityScore(10, 5))
}

func TestInteractionAction(t *testing.T) {
	tests := []struct {
		interaction string
		target      TargetType
		want        string
		ok          bool
	}{
		{InteractionView, TargetArticle, "article_viewed", true},
		{InteractionClick, TargetSpace, "space_clicked", true},
		{InteractionShare, TargetArticle, "article_shared", true},
		{InteractionSave, TargetArticle, "article_saved", true},
		{"hover", TargetArticle, "", false},
	}
	for _, tt := range tests {
		got, ok := InteractionAction(tt.interaction, tt.target)
		assert.Equal(t, tt.ok, ok)
		assert.Equal(t, tt.want, got)
	}
}

func TestValidFeedView(t *testing.T) {
	assert.True(t, ValidFeedView(ViewLatest))
	assert.True(t, ValidFeedView(ViewTrending))
	assert.True(t, ValidFeedView(ViewFollowing))
	assert.False(t, ValidFeedView(ViewRecommended))
	assert.False(t, ValidFeedView("newest"))
}
