package spoonacular

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const stubRandomResponse = `{
	"recipes": [
		{
			"id": 715538,
			"title": "Pad Thai",
			"image": "https://img.example.com/pad-thai.jpg",
			"readyInMinutes": 35,
			"servings": 4,
			"cuisines": ["Thai", "Asian"],
			"dishTypes": ["main course", "dinner"],
			"sourceUrl": "https://example.com/pad-thai",
			"sourceName": "Example Recipes",
			"extendedIngredients": [
				{"original": "200g rice noodles"},
				{"original": ""},
				{"original": "2 eggs"}
			],
			"analyzedInstructions": [
				{"steps": [{"step": "Soak the noodles."}, {"step": "Stir-fry everything."}]}
			]
		},
		{
			"id": 12345,
			"title": "Mystery Stew",
			"readyInMinutes": 95,
			"servings": 6,
			"cuisines": [],
			"dishTypes": []
		}
	]
}`

func TestClient_FetchRandomRecipes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/random", r.URL.Path)
		assert.Equal(t, "2", r.URL.Query().Get("number"))
		assert.Equal(t, "test-key", r.URL.Query().Get("apiKey"))
		_, _ = w.Write([]byte(stubRandomResponse))
	}))
	defer srv.Close()

	client := NewClientWithBaseURL("test-key", srv.URL)
	recipes, err := client.FetchRandomRecipes(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, recipes, 2)

	padThai := recipes[0]
	assert.Equal(t, "Pad Thai", padThai.Title)
	assert.Equal(t, "Thai", padThai.Cuisine)
	assert.Equal(t, "main course", padThai.DishType)
	assert.Equal(t, "medium", padThai.Difficulty)
	assert.Equal(t, 35, padThai.CookTimeMinutes)
	assert.Equal(t, []string{"200g rice noodles", "2 eggs"}, padThai.Ingredients)
	assert.Equal(t, []string{"Soak the noodles.", "Stir-fry everything."}, padThai.Instructions)
	assert.Equal(t, "https://example.com/pad-thai", padThai.SourceURL)
	assert.False(t, padThai.AddedAt.IsZero())

	stew := recipes[1]
	assert.Empty(t, stew.Cuisine)
	assert.Equal(t, "hard", stew.Difficulty)
}

func TestClient_FetchRandomRecipes_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusPaymentRequired)
	}))
	defer srv.Close()

	client := NewClientWithBaseURL("test-key", srv.URL)
	_, err := client.FetchRandomRecipes(context.Background(), 5)
	require.Error(t, err)
}

func TestClient_FetchRandomRecipes_InvalidCount(t *testing.T) {
	client := NewClient("test-key")
	_, err := client.FetchRandomRecipes(context.Background(), 0)
	require.Error(t, err)
}
