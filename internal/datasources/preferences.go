package datasources

import (
	"context"

	"github.com/dailydish/recipe-feed/internal/domain"
)

// PreferenceRepository combines all preference store interfaces.
type PreferenceRepository interface {
	PreferenceLister
	PreferenceGetter
	RatingApplier
	RatingCounter
	LowRatedRecipeLister
}

type PreferenceLister interface {
	ListPreferenceScores(ctx context.Context) ([]domain.PreferenceScore, error)
}

type PreferenceGetter interface {
	GetPreferenceScore(ctx context.Context, dimension domain.Dimension, value string) (float64, error)
}

// RatingApplier atomically records a rating against its send record and
// applies the preference deltas it produced. Either every delta lands or
// none do, and a send record can be rated at most once. Returns the
// updated scores for the touched (dimension, value) pairs.
type RatingApplier interface {
	ApplyRating(
		ctx context.Context,
		event domain.RatingEvent,
		deltas []domain.PreferenceDelta,
	) ([]domain.PreferenceScore, error)
}

type RatingCounter interface {
	CountRatings(ctx context.Context) (int, error)
}

// LowRatedRecipeLister returns recipes rated 2 stars or below, which are
// excluded from selection permanently.
type LowRatedRecipeLister interface {
	ListLowRatedRecipeIDs(ctx context.Context) ([]int64, error)
}
