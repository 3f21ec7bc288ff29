package tag

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

type SuggestRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	Limit   int    `json:"limit"`
}

func (r SuggestRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title,
			validation.Required.Error("title is required"),
			validation.Length(1, 300),
		),
		validation.Field(&r.Content,
			validation.Required.Error("content is required"),
		),
		validation.Field(&r.Limit,
			validation.Min(0),
			validation.Max(20),
		),
	)
}

type SuggestResponse struct {
	SuggestedTags []string           `json:"suggested_tags"`
	Confidence    map[string]float64 `json:"confidence"`
}

type TagStats struct {
	Articles      int     `json:"articles"`
	Spaces        int     `json:"spaces"`
	Experts       int     `json:"experts"`
	TotalUsage    int     `json:"total_usage"`
	WeeklyGrowth  string  `json:"weekly_growth,omitempty"`
	TrendingScore float64 `json:"trending_score"`
}

type TagResponse struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Stats       TagStats `json:"stats"`
	Related     []string `json:"related"`
}

type ListFilter struct {
	Sort     string // alphabetical, popular, trending
	Category string // all, with_content, with_experts
	Limit    int
}

func (f ListFilter) Validate() error {
	return validation.ValidateStruct(&f,
		validation.Field(&f.Sort, validation.In("alphabetical", "popular", "trending")),
		validation.Field(&f.Category, validation.In("all", "with_content", "with_experts")),
		validation.Field(&f.Limit, validation.Min(0), validation.Max(100)),
	)
}
