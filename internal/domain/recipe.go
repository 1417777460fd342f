package domain

import (
	"time"
)

// Dimension is a recipe attribute axis used for preference scoring.
type Dimension string

const (
	DimensionCuisine        Dimension = "cuisine"
	DimensionDishType       Dimension = "dish_type"
	DimensionDifficulty     Dimension = "difficulty"
	DimensionCookTimeBucket Dimension = "cook_time_bucket"
)

// ScoredDimensions lists every dimension that participates in scoring.
var ScoredDimensions = []Dimension{
	DimensionCuisine,
	DimensionDishType,
	DimensionDifficulty,
	DimensionCookTimeBucket,
}

type Recipe struct {
	ID              int64     `json:"id"`
	Title           string    `json:"title"`
	Cuisine         string    `json:"cuisine"`
	DishType        string    `json:"dish_type"`
	Difficulty      string    `json:"difficulty"`
	CookTimeMinutes int       `json:"cook_time_minutes"`
	Servings        int       `json:"servings"`
	ImageURL        string    `json:"image_url"`
	Ingredients     []string  `json:"ingredients"`
	Instructions    []string  `json:"instructions"`
	SourceURL       string    `json:"source_url"`
	SourceWebsite   string    `json:"source_website"`
	AddedAt         time.Time `json:"added_at"`
}

// Cook time bucket boundaries, in minutes.
const (
	CookTimeQuickMaxMinutes  = 30
	CookTimeMediumMaxMinutes = 60
)

const (
	CookTimeBucketQuick  = "quick (<30min)"
	CookTimeBucketMedium = "medium (30-60min)"
	CookTimeBucketLong   = "long (>60min)"
)

// CookTimeBucket buckets a cook time into quick/medium/long.
func CookTimeBucket(minutes int) string {
	switch {
	case minutes < CookTimeQuickMaxMinutes:
		return CookTimeBucketQuick
	case minutes <= CookTimeMediumMaxMinutes:
		return CookTimeBucketMedium
	default:
		return CookTimeBucketLong
	}
}

// DimensionValues returns the recipe's value on each scored dimension.
// Dimensions the recipe carries no value for are omitted, so they neither
// contribute to selection scores nor receive preference updates.
func (r Recipe) DimensionValues() map[Dimension]string {
	values := make(map[Dimension]string, len(ScoredDimensions))
	if r.Cuisine != "" {
		values[DimensionCuisine] = r.Cuisine
	}
	if r.DishType != "" {
		values[DimensionDishType] = r.DishType
	}
	if r.Difficulty != "" {
		values[DimensionDifficulty] = r.Difficulty
	}
	if r.CookTimeMinutes > 0 {
		values[DimensionCookTimeBucket] = CookTimeBucket(r.CookTimeMinutes)
	}
	return values
}
