package command

import (
	"context"
	"fmt"
	"time"

	"github.com/dailydish/recipe-feed/internal/datasources"
	"github.com/dailydish/recipe-feed/internal/domain"
)

// ApplyRatingRequest is the request for the ApplyRating command.
type ApplyRatingRequest struct {
	SendRecordID int64
	RecipeID     int64
	Stars        int
}

// ApplyRating applies one star rating: it validates the stars, expands
// the rated recipe into per-dimension preference deltas and hands the
// whole batch to the store, which applies it atomically. Re-applying a
// rating to the same send record is rejected by the store; the updater
// itself is deliberately not idempotent.
type ApplyRating struct {
	Recipes datasources.RecipeFetcher
	Ratings datasources.RatingApplier
	Now     func() time.Time
}

// NewApplyRating creates a properly initialized ApplyRating command.
func NewApplyRating(
	recipes datasources.RecipeFetcher,
	ratings datasources.RatingApplier,
) *ApplyRating {
	return &ApplyRating{
		Recipes: recipes,
		Ratings: ratings,
		Now:     time.Now,
	}
}

// Execute applies the rating and returns the updated preference scores.
func (c *ApplyRating) Execute(
	ctx context.Context, req ApplyRatingRequest,
) ([]domain.PreferenceScore, error) {
	logger := domain.LoggerFromContext(ctx)

	recipes, err := c.Recipes.FetchRecipesByID(ctx, []int64{req.RecipeID})
	if err != nil {
		return nil, fmt.Errorf("fetching rated recipe: %w", err)
	}
	if len(recipes) == 0 {
		return nil, fmt.Errorf("recipe [%d] not found", req.RecipeID)
	}
	recipe := recipes[0]

	deltas, err := domain.PreferenceDeltas(recipe, req.Stars)
	if err != nil {
		return nil, fmt.Errorf("computing preference deltas: %w", err)
	}

	event := domain.RatingEvent{
		SendRecordID: req.SendRecordID,
		RecipeID:     req.RecipeID,
		Stars:        req.Stars,
		RatedAt:      c.Now(),
	}

	updated, err := c.Ratings.ApplyRating(ctx, event, deltas)
	if err != nil {
		return nil, fmt.Errorf("applying rating: %w", err)
	}

	for _, score := range updated {
		logger.InfoContext(ctx, "preference score updated",
			"dimension", score.Dimension,
			"value", score.Value,
			"score", score.Score,
		)
	}

	return updated, nil
}
