package controller

import (
	"net/http"

	"github.com/dailydish/recipe-feed/internal/command"
	"github.com/dailydish/recipe-feed/internal/domain"
)

// SendTrigger kicks off a daily send outside the schedule, for catching
// up after downtime or trying out a config change.
type SendTrigger struct {
	SendCmd command.Command[command.SendDailyRecipesRequest, command.Empty]
}

func (c SendTrigger) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := domain.LoggerFromContext(ctx)

	if _, err := c.SendCmd.Execute(ctx, command.SendDailyRecipesRequest{}); err != nil {
		logger.ErrorContext(ctx, "manual send failed", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusAccepted)
}
