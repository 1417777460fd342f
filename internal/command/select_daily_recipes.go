package command

import (
	"context"
	"fmt"
	"time"

	"github.com/dailydish/recipe-feed/internal/datasources"
	"github.com/dailydish/recipe-feed/internal/domain"
)

// SelectDailyRecipesRequest is the request for the SelectDailyRecipes command.
type SelectDailyRecipesRequest struct {
	Count int
}

// SelectDailyRecipes runs the recommendation engine over the current
// catalog, send history and preference state.
type SelectDailyRecipes struct {
	Catalog     datasources.CandidateRecipeLister
	History     datasources.SendRecordLister
	Ratings     datasources.RatingCounter
	LowRated    datasources.LowRatedRecipeLister
	Preferences datasources.PreferenceLister
	Selector    *domain.Selector
	Now         func() time.Time
}

// NewSelectDailyRecipes creates a properly initialized SelectDailyRecipes command.
func NewSelectDailyRecipes(
	catalog datasources.CandidateRecipeLister,
	history datasources.SendRecordLister,
	ratings datasources.RatingCounter,
	lowRated datasources.LowRatedRecipeLister,
	preferences datasources.PreferenceLister,
	selector *domain.Selector,
) *SelectDailyRecipes {
	return &SelectDailyRecipes{
		Catalog:     catalog,
		History:     history,
		Ratings:     ratings,
		LowRated:    lowRated,
		Preferences: preferences,
		Selector:    selector,
		Now:         time.Now,
	}
}

// Execute selects up to req.Count recipes for today's send, ordered as
// they should appear in the email.
func (c *SelectDailyRecipes) Execute(
	ctx context.Context, req SelectDailyRecipesRequest,
) ([]domain.Recipe, error) {
	logger := domain.LoggerFromContext(ctx)
	now := c.Now()

	totalRatings, err := c.Ratings.CountRatings(ctx)
	if err != nil {
		return nil, fmt.Errorf("counting ratings: %w", err)
	}

	candidates, err := c.Catalog.ListCandidateRecipes(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing candidate recipes: %w", err)
	}

	candidates, err = c.withoutLowRated(ctx, candidates)
	if err != nil {
		return nil, err
	}

	history, err := c.History.ListSendRecordsSince(ctx, now.Add(-domain.NoRepeatWindow))
	if err != nil {
		return nil, fmt.Errorf("listing send history: %w", err)
	}

	scores, err := c.Preferences.ListPreferenceScores(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing preference scores: %w", err)
	}

	selected, err := c.Selector.Select(domain.SelectionInput{
		Count:        req.Count,
		Candidates:   candidates,
		SendHistory:  history,
		Preferences:  domain.NewPreferenceSet(scores),
		TotalRatings: totalRatings,
		Now:          now,
	})
	if err != nil {
		return nil, fmt.Errorf("selecting recipes: %w", err)
	}

	logger.InfoContext(ctx, "selected daily recipes",
		"phase", domain.PhaseForRatingCount(totalRatings),
		"total_ratings", totalRatings,
		"requested", req.Count,
		"selected", len(selected),
	)

	return selected, nil
}

// withoutLowRated drops recipes the user rated 2 stars or below.
func (c *SelectDailyRecipes) withoutLowRated(
	ctx context.Context, candidates []domain.Recipe,
) ([]domain.Recipe, error) {
	lowRatedIDs, err := c.LowRated.ListLowRatedRecipeIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing low rated recipes: %w", err)
	}
	if len(lowRatedIDs) == 0 {
		return candidates, nil
	}

	excluded := make(map[int64]bool, len(lowRatedIDs))
	for _, id := range lowRatedIDs {
		excluded[id] = true
	}

	kept := make([]domain.Recipe, 0, len(candidates))
	for _, recipe := range candidates {
		if !excluded[recipe.ID] {
			kept = append(kept, recipe)
		}
	}
	return kept, nil
}
