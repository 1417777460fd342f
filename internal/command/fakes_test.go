package command

import (
	"context"
	"time"

	"github.com/dailydish/recipe-feed/internal/domain"
)

// Hand-rolled fakes for the datasource interfaces the commands depend on.

type fakeCatalog struct {
	recipes []domain.Recipe
	err     error
}

func (f *fakeCatalog) ListCandidateRecipes(_ context.Context) ([]domain.Recipe, error) {
	return f.recipes, f.err
}

type fakeHistory struct {
	records []domain.SendRecord
	err     error
}

func (f *fakeHistory) ListSendRecordsSince(_ context.Context, _ time.Time) ([]domain.SendRecord, error) {
	return f.records, f.err
}

type fakeRatingCounter struct {
	count int
	err   error
}

func (f *fakeRatingCounter) CountRatings(_ context.Context) (int, error) {
	return f.count, f.err
}

type fakeLowRated struct {
	ids []int64
	err error
}

func (f *fakeLowRated) ListLowRatedRecipeIDs(_ context.Context) ([]int64, error) {
	return f.ids, f.err
}

type fakePreferences struct {
	scores []domain.PreferenceScore
	err    error
}

func (f *fakePreferences) ListPreferenceScores(_ context.Context) ([]domain.PreferenceScore, error) {
	return f.scores, f.err
}

type fakeRecipeFetcher struct {
	recipes map[int64]domain.Recipe
	err     error
}

func (f *fakeRecipeFetcher) FetchRecipesByID(_ context.Context, ids []int64) ([]domain.Recipe, error) {
	if f.err != nil {
		return nil, f.err
	}
	var found []domain.Recipe
	for _, id := range ids {
		if recipe, ok := f.recipes[id]; ok {
			found = append(found, recipe)
		}
	}
	return found, nil
}

type preferenceKey struct {
	dimension domain.Dimension
	value     string
}

// fakeRatingApplier accumulates deltas like the real store, so tests
// can assert the double-apply and round-trip behavior end to end.
type fakeRatingApplier struct {
	events []domain.RatingEvent
	scores map[preferenceKey]float64
	err    error
}

func newFakeRatingApplier() *fakeRatingApplier {
	return &fakeRatingApplier{scores: make(map[preferenceKey]float64)}
}

func (f *fakeRatingApplier) ApplyRating(
	_ context.Context, event domain.RatingEvent, deltas []domain.PreferenceDelta,
) ([]domain.PreferenceScore, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.events = append(f.events, event)

	updated := make([]domain.PreferenceScore, 0, len(deltas))
	for _, delta := range deltas {
		key := preferenceKey{dimension: delta.Dimension, value: delta.Value}
		f.scores[key] += delta.Delta
		updated = append(updated, domain.PreferenceScore{
			Dimension: delta.Dimension,
			Value:     delta.Value,
			Score:     f.scores[key],
			UpdatedAt: event.RatedAt,
		})
	}
	return updated, nil
}

func (f *fakeRatingApplier) score(dimension domain.Dimension, value string) float64 {
	return f.scores[preferenceKey{dimension: dimension, value: value}]
}

type fakeComposer struct {
	subject string
	html    string
	text    string
	err     error
	recipes []domain.Recipe
}

func (f *fakeComposer) ComposeDailyEmail(recipes []domain.Recipe) (string, string, string, error) {
	f.recipes = recipes
	return f.subject, f.html, f.text, f.err
}

type fakeMailer struct {
	messageID string
	err       error
	sent      int
}

func (f *fakeMailer) Send(_ context.Context, _, _, _ string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.sent++
	return f.messageID, nil
}

type fakeRecorder struct {
	messageID string
	sentAt    time.Time
	recipeIDs []int64
	err       error
}

func (f *fakeRecorder) RecordSends(
	_ context.Context, messageID string, sentAt time.Time, recipeIDs []int64,
) error {
	if f.err != nil {
		return f.err
	}
	f.messageID = messageID
	f.sentAt = sentAt
	f.recipeIDs = recipeIDs
	return nil
}

type fakeParser struct {
	ratings []domain.PositionRating
}

func (f *fakeParser) ParseRatings(_ string) []domain.PositionRating {
	return f.ratings
}

type fakeBatchLister struct {
	batch []domain.SendRecord
	err   error
}

func (f *fakeBatchLister) ListLatestUnratedBatch(_ context.Context, _ string) ([]domain.SendRecord, error) {
	return f.batch, f.err
}
