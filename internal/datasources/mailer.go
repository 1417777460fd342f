package datasources

import (
	"context"

	"github.com/dailydish/recipe-feed/internal/domain"
)

// DailyEmailComposer renders the recipes of one send into an email body.
type DailyEmailComposer interface {
	ComposeDailyEmail(recipes []domain.Recipe) (subject, htmlBody, textBody string, err error)
}

// Mailer delivers a composed email and returns the Message-ID assigned
// to it, used later to correlate reply ratings with the send.
type Mailer interface {
	Send(ctx context.Context, subject, htmlBody, textBody string) (messageID string, err error)
}

// ReplyParser extracts star ratings from a reply body.
type ReplyParser interface {
	ParseRatings(body string) []domain.PositionRating
}
