package command

import (
	"context"
	"fmt"

	"github.com/dailydish/recipe-feed/internal/datasources"
	"github.com/dailydish/recipe-feed/internal/domain"
)

// ImportRecipesRequest is the request for the ImportRecipes command.
type ImportRecipesRequest struct {
	Count int
}

// ImportRecipes pulls recipes from an external source into the catalog.
type ImportRecipes struct {
	Source  datasources.RecipeSource
	Catalog datasources.RecipeUpserter
}

// NewImportRecipes creates a properly initialized ImportRecipes command.
func NewImportRecipes(
	source datasources.RecipeSource,
	catalog datasources.RecipeUpserter,
) *ImportRecipes {
	return &ImportRecipes{
		Source:  source,
		Catalog: catalog,
	}
}

// Execute imports up to req.Count recipes and returns how many were
// stored. Individual upsert failures are logged and skipped.
func (c *ImportRecipes) Execute(ctx context.Context, req ImportRecipesRequest) (int, error) {
	logger := domain.LoggerFromContext(ctx)

	recipes, err := c.Source.FetchRandomRecipes(ctx, req.Count)
	if err != nil {
		return 0, fmt.Errorf("fetching recipes from source: %w", err)
	}

	stored := 0
	for _, recipe := range recipes {
		id, err := c.Catalog.UpsertRecipe(ctx, recipe)
		if err != nil {
			logger.ErrorContext(ctx, "failed to store imported recipe",
				"title", recipe.Title, "error", err)
			continue
		}
		logger.DebugContext(ctx, "imported recipe", "id", id, "title", recipe.Title)
		stored++
	}

	logger.InfoContext(ctx, "recipe import complete",
		"fetched", len(recipes), "stored", stored)

	return stored, nil
}
