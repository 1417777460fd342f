package datasources

import (
	"context"

	"github.com/dailydish/recipe-feed/internal/domain"
)

// CatalogRepository combines all recipe catalog interfaces.
type CatalogRepository interface {
	CandidateRecipeLister
	RecipeFetcher
	RecipeUpserter
}

type CandidateRecipeLister interface {
	ListCandidateRecipes(ctx context.Context) ([]domain.Recipe, error)
}

type RecipeFetcher interface {
	FetchRecipesByID(ctx context.Context, ids []int64) ([]domain.Recipe, error)
}

type RecipeUpserter interface {
	UpsertRecipe(ctx context.Context, recipe domain.Recipe) (int64, error)
}

// RecipeSource supplies new recipes for catalog import, e.g. from the
// Spoonacular API.
type RecipeSource interface {
	FetchRandomRecipes(ctx context.Context, count int) ([]domain.Recipe, error)
}
