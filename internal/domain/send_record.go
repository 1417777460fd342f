package domain

import (
	"errors"
	"time"
)

// NoRepeatWindow is how long a sent recipe stays ineligible for
// re-selection after its most recent send.
const NoRepeatWindow = 60 * 24 * time.Hour

// ErrSendAlreadyRated is returned when a rating targets a send record
// that has already been rated. Ratings apply at most once.
var ErrSendAlreadyRated = errors.New("send record is already rated")

// SendRecord tracks one recipe included in one daily send.
// Position is the recipe's 1-based slot in the email, used to match
// reply ratings back to recipes. Never mutated after creation except
// to attach a rating.
type SendRecord struct {
	ID        int64      `json:"id"`
	RecipeID  int64      `json:"recipe_id"`
	SentAt    time.Time  `json:"sent_at"`
	MessageID string     `json:"message_id"`
	Position  int        `json:"position"`
	Rated     bool       `json:"rated"`
	Stars     int        `json:"stars,omitempty"`
	RatedAt   *time.Time `json:"rated_at,omitempty"`
}

// SentRecipe pairs a send record with the recipe it delivered, for
// history listings and the RSS feed.
type SentRecipe struct {
	Send   SendRecord `json:"send"`
	Recipe Recipe     `json:"recipe"`
}
