package app

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/dailydish/recipe-feed/internal/command"
	"github.com/dailydish/recipe-feed/internal/datasources/mysql"
	"github.com/dailydish/recipe-feed/internal/domain"
	"github.com/dailydish/recipe-feed/internal/scheduler"
	"github.com/dailydish/recipe-feed/internal/transport/email"
	"github.com/dailydish/recipe-feed/internal/transport/web/router"
	"github.com/dailydish/recipe-feed/internal/transport/web/server"
)

type Component interface {
	Run(ctx context.Context) error
}

func Setup(ctx context.Context) ([]Component, error) {
	db, err := mysql.Connect(ctx, MustGetEnvAsString(ctx, "MYSQL_URI"))
	if err != nil {
		return nil, fmt.Errorf("connecting to MySQL: %w", err)
	}
	repo := mysql.New(db)

	selector := domain.NewSelector(rand.New(rand.NewPCG(
		uint64(time.Now().UnixNano()), 0)))

	selectCmd := command.NewSelectDailyRecipes(repo, repo, repo, repo, repo, selector)
	applyRatingCmd := command.NewApplyRating(repo, repo)
	processReplyCmd := command.NewProcessRatingReply(email.NewParser(), repo, applyRatingCmd)

	sender := email.NewSender(email.SenderConfig{
		Host:     MustGetEnvAsString(ctx, "SMTP_HOST"),
		Port:     MustGetEnvAsInt(ctx, "SMTP_PORT"),
		Username: MustGetEnvAsString(ctx, "SMTP_USERNAME"),
		Password: MustGetEnvAsString(ctx, "SMTP_PASSWORD"),
		From:     MustGetEnvAsString(ctx, "EMAIL_FROM"),
		To:       MustGetEnvAsString(ctx, "EMAIL_TO"),
	})

	sendCmd := command.NewSendDailyRecipes(
		selectCmd,
		email.NewComposer(),
		sender,
		repo,
		DefaultSendDailyRecipesConfig(ctx),
	)

	httpRouter, err := router.MakeRouter(
		repo,
		repo,
		repo,
		applyRatingCmd,
		sendCmd,
		processReplyCmd,
		MustGetEnvAsString(ctx, "RSS_FEED_BASE_URL"),
		MustGetEnvAsString(ctx, "RSS_FEED_AUTHOR_NAME"),
		MustGetEnvAsString(ctx, "RSS_FEED_AUTHOR_EMAIL"),
		MustGetEnvAsDuration(ctx, "RECIPES_CACHE_MAX_AGE"),
		router.NewAuthMiddleware(MustGetEnvAsString(ctx, "API_TOKEN")),
	)
	if err != nil {
		return nil, fmt.Errorf("unable to create HTTP router: %w", err)
	}

	return []Component{
		&server.Server{
			TLSDisabled:      MustGetEnvAsBoolean(ctx, "HTTP_TLS_DISABLED"),
			TLSDisabledPort:  MustGetEnvAsInt(ctx, "PORT"),
			AutocertHostname: MustGetEnvAsString(ctx, "HTTP_AUTOCERT_HOSTNAME"),
			Router:           httpRouter,
		},
		scheduler.New(
			GetEnvAsStringWithDefault("SEND_CRON_SPEC", "0 8 * * *"),
			sendCmd,
		),
	}, nil
}
