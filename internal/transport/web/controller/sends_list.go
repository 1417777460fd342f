package controller

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/dailydish/recipe-feed/internal/datasources"
	"github.com/dailydish/recipe-feed/internal/domain"
)

const (
	defaultSendsListLimit = 30
	maxSendsListLimit     = 200
)

type SendsList struct {
	Lister datasources.SentRecipeLister
}

type SendsListResponse struct {
	Data []domain.SentRecipe `json:"data"`
}

func (c SendsList) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	limit := defaultSendsListLimit
	if r.URL.Query().Has("limit") {
		parsed, err := strconv.ParseInt(r.URL.Query().Get("limit"), 10, 32)
		if err != nil || parsed < 1 || parsed > maxSendsListLimit {
			ctx := r.Context()
			logger := domain.LoggerFromContext(ctx)
			logger.ErrorContext(ctx, "invalid limit in query string",
				"limit", r.URL.Query().Get("limit"), "error", err)

			w.WriteHeader(http.StatusBadRequest)
			return
		}
		limit = int(parsed)
	}

	sends, err := c.Lister.ListRecentSentRecipes(r.Context(), limit)
	if err != nil {
		ctx := r.Context()
		logger := domain.LoggerFromContext(ctx)
		logger.ErrorContext(ctx, "unable to fetch send history", "error", err)

		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-cache")

	if err := json.NewEncoder(w).Encode(SendsListResponse{Data: sends}); err != nil {
		ctx := r.Context()
		logger := domain.LoggerFromContext(ctx)
		logger.ErrorContext(ctx, "unable to write send history to response", "error", err)
	}
}
