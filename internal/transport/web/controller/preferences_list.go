package controller

import (
	"encoding/json"
	"net/http"

	"github.com/dailydish/recipe-feed/internal/datasources"
	"github.com/dailydish/recipe-feed/internal/domain"
)

type PreferencesList struct {
	Lister  datasources.PreferenceLister
	Counter datasources.RatingCounter
}

type PreferencesListResponse struct {
	Data     []domain.PreferenceScore `json:"data"`
	Metadata PreferencesListMetadata  `json:"metadata"`
}

type PreferencesListMetadata struct {
	TotalRatings int          `json:"total_ratings"`
	Phase        domain.Phase `json:"phase"`
}

func (c PreferencesList) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	scores, err := c.Lister.ListPreferenceScores(r.Context())
	if err != nil {
		ctx := r.Context()
		logger := domain.LoggerFromContext(ctx)
		logger.ErrorContext(ctx, "unable to fetch preference scores", "error", err)

		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	totalRatings, err := c.Counter.CountRatings(r.Context())
	if err != nil {
		ctx := r.Context()
		logger := domain.LoggerFromContext(ctx)
		logger.ErrorContext(ctx, "unable to count ratings", "error", err)

		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-cache")

	if err := json.NewEncoder(w).Encode(PreferencesListResponse{
		Data: scores,
		Metadata: PreferencesListMetadata{
			TotalRatings: totalRatings,
			Phase:        domain.PhaseForRatingCount(totalRatings),
		},
	}); err != nil {
		ctx := r.Context()
		logger := domain.LoggerFromContext(ctx)
		logger.ErrorContext(ctx, "unable to write preference scores to response", "error", err)
	}
}
