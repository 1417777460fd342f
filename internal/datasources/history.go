package datasources

import (
	"context"
	"time"

	"github.com/dailydish/recipe-feed/internal/domain"
)

// HistoryRepository combines all send history interfaces.
type HistoryRepository interface {
	SendRecordLister
	SendRecorder
	SendRecordGetter
	LatestUnratedBatchLister
	SentRecipeLister
}

type SendRecordLister interface {
	ListSendRecordsSince(ctx context.Context, cutoff time.Time) ([]domain.SendRecord, error)
}

// SendRecorder logs the recipes of one delivered email, in send order.
type SendRecorder interface {
	RecordSends(ctx context.Context, messageID string, sentAt time.Time, recipeIDs []int64) error
}

type SendRecordGetter interface {
	GetSendRecord(ctx context.Context, id int64) (domain.SendRecord, error)
}

// LatestUnratedBatchLister returns the unrated send records from the most
// recent send, ordered by position. A non-empty messageID restricts the
// batch to the send with that email Message-ID.
type LatestUnratedBatchLister interface {
	ListLatestUnratedBatch(ctx context.Context, messageID string) ([]domain.SendRecord, error)
}

type SentRecipeLister interface {
	ListRecentSentRecipes(ctx context.Context, limit int) ([]domain.SentRecipe, error)
}
