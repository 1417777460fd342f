package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/dailydish/recipe-feed/internal/command"
	"github.com/dailydish/recipe-feed/internal/datasources/mysql"
	"github.com/dailydish/recipe-feed/internal/datasources/spoonacular"
	"github.com/dailydish/recipe-feed/internal/domain"

	_ "github.com/joho/godotenv/autoload"
)

// Imports random recipes from the Spoonacular API into the catalog.
func main() {
	ctx := context.Background()

	count := flag.Int("count", 20, "how many recipes to import")
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

	if err := run(ctx, *count); err != nil {
		logger.ErrorContext(ctx, "recipe import failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, count int) error {
	mysqlURI := os.Getenv("MYSQL_URI")
	if mysqlURI == "" {
		return fmt.Errorf("MYSQL_URI environment variable is required")
	}

	apiKey := os.Getenv("SPOONACULAR_API_KEY")
	if apiKey == "" {
		return fmt.Errorf("SPOONACULAR_API_KEY environment variable is required")
	}

	db, err := mysql.Connect(ctx, mysqlURI)
	if err != nil {
		return fmt.Errorf("connecting to MySQL: %w", err)
	}
	defer func() { _ = db.Close() }()

	importCmd := command.NewImportRecipes(
		spoonacular.NewClient(apiKey),
		mysql.New(db),
	)

	stored, err := importCmd.Execute(ctx, command.ImportRecipesRequest{Count: count})
	if err != nil {
		return err
	}

	logger := domain.LoggerFromContext(ctx)
	logger.InfoContext(ctx, "recipes imported", "stored", stored)
	return nil
}
