package domain

import (
	"errors"
	"fmt"
	"time"
)

// Star rating bounds.
const (
	MinStars = 1
	MaxStars = 5
)

// ErrInvalidRating is returned for star ratings outside 1-5.
// No preference score is touched when it is returned.
var ErrInvalidRating = errors.New("rating must be between 1 and 5 stars")

// starScoreDeltas is the fixed stars to score delta table.
var starScoreDeltas = map[int]float64{
	5: +2.0,
	4: +1.0,
	3: 0.0,
	2: -1.0,
	1: -2.0,
}

// ScoreDelta maps a star rating to the preference score change it applies.
func ScoreDelta(stars int) (float64, error) {
	delta, ok := starScoreDeltas[stars]
	if !ok {
		return 0, fmt.Errorf("%w: got %d", ErrInvalidRating, stars)
	}
	return delta, nil
}

// RatingEvent records one star rating applied to a sent recipe.
type RatingEvent struct {
	SendRecordID int64     `json:"send_record_id"`
	RecipeID     int64     `json:"recipe_id"`
	Stars        int       `json:"stars"`
	RatedAt      time.Time `json:"rated_at"`
}

// PreferenceDelta is a single dimension adjustment produced by a rating.
type PreferenceDelta struct {
	Dimension Dimension
	Value     string
	Delta     float64
}

// PreferenceDeltas expands a rating into the per-dimension score
// adjustments for the rated recipe. Stars outside 1-5 return
// ErrInvalidRating and no deltas, so callers can guarantee that an
// invalid rating never causes a partial update.
func PreferenceDeltas(recipe Recipe, stars int) ([]PreferenceDelta, error) {
	delta, err := ScoreDelta(stars)
	if err != nil {
		return nil, err
	}

	values := recipe.DimensionValues()
	deltas := make([]PreferenceDelta, 0, len(values))
	for _, dimension := range ScoredDimensions {
		value, ok := values[dimension]
		if !ok {
			continue
		}
		deltas = append(deltas, PreferenceDelta{
			Dimension: dimension,
			Value:     value,
			Delta:     delta,
		})
	}
	return deltas, nil
}

// PositionRating is a rating parsed from a reply, addressed by the
// recipe's position in the most recent send (1-based).
type PositionRating struct {
	Position int
	Stars    int
}
