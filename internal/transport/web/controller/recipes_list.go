package controller

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/dailydish/recipe-feed/internal/datasources"
	"github.com/dailydish/recipe-feed/internal/domain"
)

type RecipesList struct {
	Lister      datasources.CandidateRecipeLister
	CacheMaxAge time.Duration
}

type RecipesListResponse struct {
	Data []domain.Recipe `json:"data"`
}

func (c RecipesList) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	recipes, err := c.Lister.ListCandidateRecipes(r.Context())
	if err != nil {
		ctx := r.Context()
		logger := domain.LoggerFromContext(ctx)
		logger.ErrorContext(ctx, "unable to fetch recipes", "error", err)

		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", fmt.Sprintf("max-age=%d", int(c.CacheMaxAge.Seconds())))

	if err := json.NewEncoder(w).Encode(RecipesListResponse{Data: recipes}); err != nil {
		ctx := r.Context()
		logger := domain.LoggerFromContext(ctx)
		logger.ErrorContext(ctx, "unable to write recipes to response", "error", err)
	}
}
