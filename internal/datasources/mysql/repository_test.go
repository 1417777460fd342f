package mysql

import (
	"context"
	"database/sql"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dailydish/recipe-feed/internal/domain"
)

func setupTestDB(t *testing.T) (*sql.DB, *Repository) {
	if testing.Short() {
		t.Skip("skipping MySQL integration tests in short mode")
	}

	db, err := Connect(context.Background(), os.Getenv("MYSQL_URI"))
	if err != nil {
		t.Fatal(err)
	}

	return db, New(db)
}

func teardownTestDB(t *testing.T, db *sql.DB) {
	_, err := db.ExecContext(context.Background(), "DELETE FROM sends")
	require.NoError(t, err)

	_, err = db.ExecContext(context.Background(), "DELETE FROM preferences")
	require.NoError(t, err)

	_, err = db.ExecContext(context.Background(), "DELETE FROM recipes")
	require.NoError(t, err)

	err = db.Close()
	require.NoError(t, err)
}

func insertTestRecipe(t *testing.T, repo *Repository, title, cuisine, sourceURL string) int64 {
	t.Helper()

	id, err := repo.UpsertRecipe(context.Background(), domain.Recipe{
		Title:           title,
		Cuisine:         cuisine,
		DishType:        "main course",
		Difficulty:      "medium",
		CookTimeMinutes: 45,
		Servings:        4,
		Ingredients:     []string{"1 onion", "500g mushrooms"},
		Instructions:    []string{"Chop.", "Cook."},
		SourceURL:       sourceURL,
		SourceWebsite:   "example.com",
		AddedAt:         time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	return id
}

func TestRepository_UpsertAndFetchRecipe(t *testing.T) {
	db, repo := setupTestDB(t)
	defer teardownTestDB(t, db)

	id := insertTestRecipe(t, repo, "Mushroom Risotto", "Italian", "https://example.com/risotto")

	// Upserting the same source URL must not create a second row.
	again, err := repo.UpsertRecipe(context.Background(), domain.Recipe{
		Title:           "Mushroom Risotto (updated)",
		Cuisine:         "Italian",
		CookTimeMinutes: 50,
		SourceURL:       "https://example.com/risotto",
		AddedAt:         time.Date(2025, 3, 2, 12, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	assert.Equal(t, id, again)

	recipes, err := repo.FetchRecipesByID(context.Background(), []int64{id})
	require.NoError(t, err)
	require.Len(t, recipes, 1)
	assert.Equal(t, "Mushroom Risotto (updated)", recipes[0].Title)
	assert.Equal(t, []string{"1 onion", "500g mushrooms"}, recipes[0].Ingredients)
}

func TestRepository_RecordSendsAndBatches(t *testing.T) {
	db, repo := setupTestDB(t)
	defer teardownTestDB(t, db)

	first := insertTestRecipe(t, repo, "Pad Thai", "Thai", "https://example.com/padthai")
	second := insertTestRecipe(t, repo, "Tacos", "Mexican", "https://example.com/tacos")

	sentAt := time.Date(2025, 5, 1, 8, 0, 0, 0, time.UTC)
	err := repo.RecordSends(context.Background(), "<msg-1@example.com>", sentAt, []int64{first, second})
	require.NoError(t, err)

	records, err := repo.ListSendRecordsSince(context.Background(), sentAt.AddDate(0, 0, -1))
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, 1, records[0].Position)
	assert.Equal(t, first, records[0].RecipeID)

	batch, err := repo.ListLatestUnratedBatch(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, batch, 2)
	assert.Equal(t, []int{1, 2}, []int{batch[0].Position, batch[1].Position})

	sent, err := repo.ListRecentSentRecipes(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, sent, 2)
	assert.Equal(t, "Pad Thai", sent[0].Recipe.Title)
}

func TestRepository_ApplyRating(t *testing.T) {
	db, repo := setupTestDB(t)
	defer teardownTestDB(t, db)

	recipeID := insertTestRecipe(t, repo, "Pad Thai", "Thai", "https://example.com/padthai")
	sentAt := time.Date(2025, 5, 1, 8, 0, 0, 0, time.UTC)
	require.NoError(t, repo.RecordSends(context.Background(), "<msg-1@example.com>", sentAt, []int64{recipeID}))

	batch, err := repo.ListLatestUnratedBatch(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, batch, 1)

	event := domain.RatingEvent{
		SendRecordID: batch[0].ID,
		RecipeID:     recipeID,
		Stars:        5,
		RatedAt:      sentAt.Add(2 * time.Hour),
	}
	deltas := []domain.PreferenceDelta{
		{Dimension: domain.DimensionCuisine, Value: "Thai", Delta: 2.0},
		{Dimension: domain.DimensionDishType, Value: "main course", Delta: 2.0},
	}

	updated, err := repo.ApplyRating(context.Background(), event, deltas)
	require.NoError(t, err)
	require.Len(t, updated, 2)
	assert.Equal(t, 2.0, updated[0].Score)

	count, err := repo.CountRatings(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	// Re-rating the same send record must fail and change nothing.
	_, err = repo.ApplyRating(context.Background(), event, deltas)
	require.ErrorIs(t, err, domain.ErrSendAlreadyRated)

	score, err := repo.GetPreferenceScore(context.Background(), domain.DimensionCuisine, "Thai")
	require.NoError(t, err)
	assert.Equal(t, 2.0, score)
}

func TestRepository_PreferenceScoreRoundTrip(t *testing.T) {
	db, repo := setupTestDB(t)
	defer teardownTestDB(t, db)

	recipeID := insertTestRecipe(t, repo, "Pad Thai", "Thai", "https://example.com/padthai")
	sentAt := time.Date(2025, 5, 1, 8, 0, 0, 0, time.UTC)
	require.NoError(t, repo.RecordSends(context.Background(), "<msg-1@example.com>", sentAt, []int64{recipeID}))
	require.NoError(t, repo.RecordSends(context.Background(), "<msg-2@example.com>", sentAt.AddDate(0, 0, 1), []int64{recipeID}))

	records, err := repo.ListSendRecordsSince(context.Background(), sentAt.AddDate(0, 0, -1))
	require.NoError(t, err)
	require.Len(t, records, 2)

	// +2.0 then -2.0 must return the score exactly to its original value.
	_, err = repo.ApplyRating(context.Background(),
		domain.RatingEvent{SendRecordID: records[0].ID, RecipeID: recipeID, Stars: 5, RatedAt: sentAt},
		[]domain.PreferenceDelta{{Dimension: domain.DimensionCuisine, Value: "Thai", Delta: 2.0}})
	require.NoError(t, err)

	_, err = repo.ApplyRating(context.Background(),
		domain.RatingEvent{SendRecordID: records[1].ID, RecipeID: recipeID, Stars: 1, RatedAt: sentAt},
		[]domain.PreferenceDelta{{Dimension: domain.DimensionCuisine, Value: "Thai", Delta: -2.0}})
	require.NoError(t, err)

	score, err := repo.GetPreferenceScore(context.Background(), domain.DimensionCuisine, "Thai")
	require.NoError(t, err)
	assert.Equal(t, 0.0, score)

	lowRated, err := repo.ListLowRatedRecipeIDs(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []int64{recipeID}, lowRated)
}
