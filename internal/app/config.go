package app

import (
	"context"

	"github.com/dailydish/recipe-feed/internal/command"
)

const defaultRecipesPerSend = 2

// DefaultSendDailyRecipesConfig returns the daily send config, with an
// optional RECIPES_PER_SEND environment override.
func DefaultSendDailyRecipesConfig(ctx context.Context) command.SendDailyRecipesConfig {
	return command.SendDailyRecipesConfig{
		RecipesPerSend: GetEnvAsIntWithDefault(ctx, "RECIPES_PER_SEND", defaultRecipesPerSend),
	}
}
