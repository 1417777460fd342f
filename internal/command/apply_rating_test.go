package command

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dailydish/recipe-feed/internal/domain"
)

func TestApplyRating_UpdatesEveryDimension(t *testing.T) {
	fetcher := &fakeRecipeFetcher{recipes: map[int64]domain.Recipe{
		42: {
			ID:              42,
			Title:           "Pad Thai",
			Cuisine:         "thai",
			DishType:        "noodles",
			Difficulty:      "medium",
			CookTimeMinutes: 35,
		},
	}}
	applier := newFakeRatingApplier()

	cmd := NewApplyRating(fetcher, applier)
	cmd.Now = func() time.Time { return time.Date(2025, 3, 1, 19, 0, 0, 0, time.UTC) }

	updated, err := cmd.Execute(context.Background(), ApplyRatingRequest{
		SendRecordID: 7,
		RecipeID:     42,
		Stars:        5,
	})
	require.NoError(t, err)

	require.Len(t, updated, 4)
	for _, score := range updated {
		assert.Equal(t, 2.0, score.Score)
	}

	require.Len(t, applier.events, 1)
	assert.Equal(t, int64(7), applier.events[0].SendRecordID)
	assert.Equal(t, 5, applier.events[0].Stars)
	assert.Equal(t, 2.0, applier.score(domain.DimensionCuisine, "thai"))
	assert.Equal(t, 2.0, applier.score(domain.DimensionCookTimeBucket, "medium (30-60min)"))
}

func TestApplyRating_InvalidStarsLeavesStoreUntouched(t *testing.T) {
	fetcher := &fakeRecipeFetcher{recipes: map[int64]domain.Recipe{
		42: {ID: 42, Title: "Pad Thai", Cuisine: "thai"},
	}}

	for _, stars := range []int{0, 6, -1} {
		applier := newFakeRatingApplier()
		cmd := NewApplyRating(fetcher, applier)

		_, err := cmd.Execute(context.Background(), ApplyRatingRequest{
			SendRecordID: 7,
			RecipeID:     42,
			Stars:        stars,
		})
		require.ErrorIs(t, err, domain.ErrInvalidRating, "stars=%d", stars)
		assert.Empty(t, applier.events, "stars=%d", stars)
		assert.Empty(t, applier.scores, "stars=%d", stars)
	}
}

func TestApplyRating_RepeatedRatingsAccumulate(t *testing.T) {
	fetcher := &fakeRecipeFetcher{recipes: map[int64]domain.Recipe{
		42: {ID: 42, Title: "Pad Thai", Cuisine: "thai"},
	}}
	applier := newFakeRatingApplier()
	cmd := NewApplyRating(fetcher, applier)

	for _, req := range []ApplyRatingRequest{
		{SendRecordID: 1, RecipeID: 42, Stars: 4},
		{SendRecordID: 2, RecipeID: 42, Stars: 4},
	} {
		_, err := cmd.Execute(context.Background(), req)
		require.NoError(t, err)
	}

	assert.Equal(t, 2.0, applier.score(domain.DimensionCuisine, "thai"))
}

func TestApplyRating_OppositeRatingsCancel(t *testing.T) {
	fetcher := &fakeRecipeFetcher{recipes: map[int64]domain.Recipe{
		42: {ID: 42, Title: "Pad Thai", Cuisine: "thai"},
	}}
	applier := newFakeRatingApplier()
	cmd := NewApplyRating(fetcher, applier)

	_, err := cmd.Execute(context.Background(), ApplyRatingRequest{
		SendRecordID: 1, RecipeID: 42, Stars: 5,
	})
	require.NoError(t, err)
	_, err = cmd.Execute(context.Background(), ApplyRatingRequest{
		SendRecordID: 2, RecipeID: 42, Stars: 1,
	})
	require.NoError(t, err)

	assert.Equal(t, 0.0, applier.score(domain.DimensionCuisine, "thai"))
}

func TestApplyRating_UnknownRecipe(t *testing.T) {
	fetcher := &fakeRecipeFetcher{recipes: map[int64]domain.Recipe{}}
	applier := newFakeRatingApplier()
	cmd := NewApplyRating(fetcher, applier)

	_, err := cmd.Execute(context.Background(), ApplyRatingRequest{
		SendRecordID: 1, RecipeID: 99, Stars: 3,
	})
	require.Error(t, err)
	assert.Empty(t, applier.events)
}
