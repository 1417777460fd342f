package command

import (
	"context"
	"fmt"

	"github.com/dailydish/recipe-feed/internal/datasources"
	"github.com/dailydish/recipe-feed/internal/domain"
)

// ProcessRatingReplyRequest is the request for the ProcessRatingReply command.
type ProcessRatingReplyRequest struct {
	// Body is the raw reply text.
	Body string
	// MessageID optionally pins the reply to the send it answers. When
	// empty, ratings apply to the most recent unrated send.
	MessageID string
}

// ProcessRatingReply parses star ratings out of an email reply and
// applies them to the recipes of the matching send, by position.
type ProcessRatingReply struct {
	Parser      datasources.ReplyParser
	BatchLister datasources.LatestUnratedBatchLister
	ApplyCmd    *ApplyRating
}

// NewProcessRatingReply creates a properly initialized ProcessRatingReply command.
func NewProcessRatingReply(
	parser datasources.ReplyParser,
	batchLister datasources.LatestUnratedBatchLister,
	applyCmd *ApplyRating,
) *ProcessRatingReply {
	return &ProcessRatingReply{
		Parser:      parser,
		BatchLister: batchLister,
		ApplyCmd:    applyCmd,
	}
}

// Execute returns the number of ratings successfully applied. Positions
// with no matching send record are skipped with a warning rather than
// failing the whole reply.
func (c *ProcessRatingReply) Execute(
	ctx context.Context, req ProcessRatingReplyRequest,
) (int, error) {
	logger := domain.LoggerFromContext(ctx)

	ratings := c.Parser.ParseRatings(req.Body)
	if len(ratings) == 0 {
		logger.InfoContext(ctx, "no ratings found in reply")
		return 0, nil
	}

	batch, err := c.BatchLister.ListLatestUnratedBatch(ctx, req.MessageID)
	if err != nil {
		return 0, fmt.Errorf("listing latest unrated batch: %w", err)
	}
	if len(batch) == 0 {
		logger.WarnContext(ctx, "no unrated send records to match reply against")
		return 0, nil
	}

	byPosition := make(map[int]domain.SendRecord, len(batch))
	for _, record := range batch {
		byPosition[record.Position] = record
	}

	applied := 0
	for _, rating := range ratings {
		record, ok := byPosition[rating.Position]
		if !ok {
			logger.WarnContext(ctx, "rating position out of range",
				"position", rating.Position, "batch_size", len(batch))
			continue
		}

		if _, err := c.ApplyCmd.Execute(ctx, ApplyRatingRequest{
			SendRecordID: record.ID,
			RecipeID:     record.RecipeID,
			Stars:        rating.Stars,
		}); err != nil {
			logger.ErrorContext(ctx, "failed to apply rating from reply",
				"position", rating.Position, "stars", rating.Stars, "error", err)
			continue
		}
		applied++
	}

	logger.InfoContext(ctx, "processed rating reply",
		"parsed", len(ratings), "applied", applied)

	return applied, nil
}
