package command

import (
	"context"
	"fmt"
	"time"

	"github.com/dailydish/recipe-feed/internal/datasources"
	"github.com/dailydish/recipe-feed/internal/domain"
)

// SendDailyRecipesRequest is the request for the SendDailyRecipes command.
// This command takes no parameters beyond context.
type SendDailyRecipesRequest struct{}

// SendDailyRecipesConfig holds configuration for the daily send.
type SendDailyRecipesConfig struct {
	// RecipesPerSend is how many recipes each daily email carries.
	RecipesPerSend int
}

// SendDailyRecipes orchestrates one daily send: select recipes, compose
// the email, deliver it, and record the send for the no-repeat window
// and reply matching.
type SendDailyRecipes struct {
	SelectCmd *SelectDailyRecipes
	Composer  datasources.DailyEmailComposer
	Mailer    datasources.Mailer
	Recorder  datasources.SendRecorder
	Config    SendDailyRecipesConfig
	Now       func() time.Time
}

// NewSendDailyRecipes creates a properly initialized SendDailyRecipes command.
func NewSendDailyRecipes(
	selectCmd *SelectDailyRecipes,
	composer datasources.DailyEmailComposer,
	mailer datasources.Mailer,
	recorder datasources.SendRecorder,
	config SendDailyRecipesConfig,
) *SendDailyRecipes {
	return &SendDailyRecipes{
		SelectCmd: selectCmd,
		Composer:  composer,
		Mailer:    mailer,
		Recorder:  recorder,
		Config:    config,
		Now:       time.Now,
	}
}

// Execute performs the daily send. An empty selection skips sending
// entirely rather than delivering an empty email.
func (c *SendDailyRecipes) Execute(ctx context.Context, _ SendDailyRecipesRequest) (Empty, error) {
	logger := domain.LoggerFromContext(ctx)

	recipes, err := c.SelectCmd.Execute(ctx, SelectDailyRecipesRequest{
		Count: c.Config.RecipesPerSend,
	})
	if err != nil {
		return Empty{}, fmt.Errorf("selecting daily recipes: %w", err)
	}

	if len(recipes) == 0 {
		logger.WarnContext(ctx, "no eligible recipes, skipping daily send")
		return Empty{}, nil
	}

	subject, htmlBody, textBody, err := c.Composer.ComposeDailyEmail(recipes)
	if err != nil {
		return Empty{}, fmt.Errorf("composing daily email: %w", err)
	}

	messageID, err := c.Mailer.Send(ctx, subject, htmlBody, textBody)
	if err != nil {
		return Empty{}, fmt.Errorf("sending daily email: %w", err)
	}

	recipeIDs := make([]int64, 0, len(recipes))
	for _, recipe := range recipes {
		recipeIDs = append(recipeIDs, recipe.ID)
	}

	if err := c.Recorder.RecordSends(ctx, messageID, c.Now(), recipeIDs); err != nil {
		// The email is already out; the send must still be recorded or
		// tomorrow's selection may repeat today's recipes.
		return Empty{}, fmt.Errorf("recording sends after delivery: %w", err)
	}

	logger.InfoContext(ctx, "daily recipes sent",
		"count", len(recipes), "message_id", messageID)

	return Empty{}, nil
}
