package controller

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/dailydish/recipe-feed/internal/command"
	"github.com/dailydish/recipe-feed/internal/datasources"
	"github.com/dailydish/recipe-feed/internal/domain"
)

type RatingSet struct {
	Sends        datasources.SendRecordGetter
	ApplyRatings *command.ApplyRating
}

type RatingSetResponse struct {
	Data []domain.PreferenceScore `json:"data"`
}

func (c RatingSet) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	logger := domain.LoggerFromContext(r.Context())
	ctx := domain.ContextWithLogger(r.Context(), logger.With("send_id", vars["send_id"]))

	sendID, err := strconv.ParseInt(vars["send_id"], 10, 64)
	if err != nil {
		logger.ErrorContext(ctx, "invalid send ID", "value", vars["send_id"])
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	stars, err := strconv.Atoi(vars["stars"])
	if err != nil || stars < domain.MinStars || stars > domain.MaxStars {
		logger.ErrorContext(ctx, "invalid stars value", "value", vars["stars"])
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	send, err := c.Sends.GetSendRecord(ctx, sendID)
	if err != nil {
		logger.ErrorContext(ctx, "unable to fetch send record", "error", err)
		w.WriteHeader(http.StatusNotFound)
		return
	}

	updated, err := c.ApplyRatings.Execute(ctx, command.ApplyRatingRequest{
		SendRecordID: send.ID,
		RecipeID:     send.RecipeID,
		Stars:        stars,
	})
	if err != nil {
		if errors.Is(err, domain.ErrSendAlreadyRated) {
			logger.WarnContext(ctx, "send already rated")
			w.WriteHeader(http.StatusConflict)
			return
		}
		logger.ErrorContext(ctx, "failed to apply rating", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(RatingSetResponse{Data: updated}); err != nil {
		logger.ErrorContext(ctx, "unable to write updated scores to response", "error", err)
	}
}
