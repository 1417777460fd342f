package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/dailydish/recipe-feed/internal/command"
	"github.com/dailydish/recipe-feed/internal/datasources/mysql"
	"github.com/dailydish/recipe-feed/internal/domain"
	"github.com/dailydish/recipe-feed/internal/transport/email"

	_ "github.com/joho/godotenv/autoload"
)

// Reads a reply email body from stdin and applies the ratings in it,
// for piping from a mail delivery agent or pasting a reply by hand.
func main() {
	ctx := context.Background()

	messageID := flag.String("message-id", "",
		"Message-ID of the send the reply answers; defaults to the most recent unrated send")
	flag.Parse()

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

	if err := run(ctx, *messageID); err != nil {
		logger.ErrorContext(ctx, "applying ratings failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, messageID string) error {
	body, err := io.ReadAll(os.Stdin)
	if err != nil {
		return fmt.Errorf("reading reply body from stdin: %w", err)
	}

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

	processCmd := command.NewProcessRatingReply(
		email.NewParser(),
		repo,
		command.NewApplyRating(repo, repo),
	)

	applied, err := processCmd.Execute(ctx, command.ProcessRatingReplyRequest{
		Body:      string(body),
		MessageID: messageID,
	})
	if err != nil {
		return err
	}

	logger := domain.LoggerFromContext(ctx)
	logger.InfoContext(ctx, "ratings applied", "count", applied)
	return nil
}
