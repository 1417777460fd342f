package scheduler

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"

	"github.com/dailydish/recipe-feed/internal/command"
	"github.com/dailydish/recipe-feed/internal/domain"
)

// Scheduler runs the daily send on a cron schedule. It satisfies the
// app.Component interface so it runs alongside the web server.
type Scheduler struct {
	Spec    string
	SendCmd command.Command[command.SendDailyRecipesRequest, command.Empty]
}

func New(spec string, sendCmd command.Command[command.SendDailyRecipesRequest, command.Empty]) *Scheduler {
	return &Scheduler{
		Spec:    spec,
		SendCmd: sendCmd,
	}
}

// Run blocks until ctx is cancelled, firing the daily send on schedule.
// A failed send is logged and the schedule keeps going; the next day's
// run is the retry.
func (s *Scheduler) Run(ctx context.Context) error {
	logger := domain.LoggerFromContext(ctx)

	c := cron.New()
	_, err := c.AddFunc(s.Spec, func() {
		logger.InfoContext(ctx, "scheduled daily send starting")
		if _, err := s.SendCmd.Execute(ctx, command.SendDailyRecipesRequest{}); err != nil {
			logger.ErrorContext(ctx, "scheduled daily send failed", "error", err)
			return
		}
		logger.InfoContext(ctx, "scheduled daily send complete")
	})
	if err != nil {
		return fmt.Errorf("parsing cron spec %q: %w", s.Spec, err)
	}

	c.Start()
	defer c.Stop()

	<-ctx.Done()
	return nil
}
