package main

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"os"
	"time"

	"github.com/dailydish/recipe-feed/internal/app"
	"github.com/dailydish/recipe-feed/internal/command"
	"github.com/dailydish/recipe-feed/internal/datasources/mysql"
	"github.com/dailydish/recipe-feed/internal/domain"
	"github.com/dailydish/recipe-feed/internal/transport/email"

	_ "github.com/joho/godotenv/autoload"
)

// Runs one daily send and exits. Suitable for external schedulers like
// systemd timers in place of the in-process cron.
func main() {
	ctx := context.Background()

	logLevel := slog.LevelInfo
	if lvl := os.Getenv("LOG_LEVEL"); lvl != "" {
		if err := logLevel.UnmarshalText([]byte(lvl)); err != nil {
			fmt.Fprintf(os.Stderr, "invalid LOG_LEVEL: %s\n", lvl)
			os.Exit(1)
		}
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)
	ctx = domain.ContextWithLogger(ctx, logger)

	if err := run(ctx); err != nil {
		logger.ErrorContext(ctx, "daily send failed", "error", err)
		os.Exit(1)
	}

	logger.InfoContext(ctx, "daily send completed successfully")
}

func run(ctx context.Context) error {
	mysqlURI := os.Getenv("MYSQL_URI")
	if mysqlURI == "" {
		return fmt.Errorf("MYSQL_URI environment variable is required")
	}

	db, err := mysql.Connect(ctx, mysqlURI)
	if err != nil {
		return fmt.Errorf("connecting to MySQL: %w", err)
	}
	defer func() { _ = db.Close() }()

	repo := mysql.New(db)

	selector := domain.NewSelector(rand.New(rand.NewPCG(
		uint64(time.Now().UnixNano()), 0)))
	selectCmd := command.NewSelectDailyRecipes(repo, repo, repo, repo, repo, selector)

	sender := email.NewSender(email.SenderConfig{
		Host:     app.MustGetEnvAsString(ctx, "SMTP_HOST"),
		Port:     app.MustGetEnvAsInt(ctx, "SMTP_PORT"),
		Username: app.MustGetEnvAsString(ctx, "SMTP_USERNAME"),
		Password: app.MustGetEnvAsString(ctx, "SMTP_PASSWORD"),
		From:     app.MustGetEnvAsString(ctx, "EMAIL_FROM"),
		To:       app.MustGetEnvAsString(ctx, "EMAIL_TO"),
	})

	sendCmd := command.NewSendDailyRecipes(
		selectCmd,
		email.NewComposer(),
		sender,
		repo,
		app.DefaultSendDailyRecipesConfig(ctx),
	)

	_, err = sendCmd.Execute(ctx, command.SendDailyRecipesRequest{})
	return err
}
