package controller

import (
	"encoding/json"
	"net/http"

	"github.com/dailydish/recipe-feed/internal/command"
	"github.com/dailydish/recipe-feed/internal/domain"
)

// ReplySubmit accepts a raw reply email body, typically posted by an
// inbound email webhook, and applies any ratings found in it.
type ReplySubmit struct {
	ProcessCmd command.Command[command.ProcessRatingReplyRequest, int]
}

type ReplySubmitRequest struct {
	Body      string `json:"body"`
	MessageID string `json:"message_id"`
}

type ReplySubmitResponse struct {
	RatingsApplied int `json:"ratings_applied"`
}

func (c ReplySubmit) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := domain.LoggerFromContext(ctx)

	var req ReplySubmitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.ErrorContext(ctx, "unable to parse reply submission", "error", err)
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	if req.Body == "" {
		logger.ErrorContext(ctx, "reply submission with empty body")
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	applied, err := c.ProcessCmd.Execute(ctx, command.ProcessRatingReplyRequest{
		Body:      req.Body,
		MessageID: req.MessageID,
	})
	if err != nil {
		logger.ErrorContext(ctx, "failed to process reply", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(ReplySubmitResponse{RatingsApplied: applied}); err != nil {
		logger.ErrorContext(ctx, "unable to write reply result to response", "error", err)
	}
}
