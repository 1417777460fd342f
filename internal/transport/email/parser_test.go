package email

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dailydish/recipe-feed/internal/domain"
)

func TestParser_ParseRatings(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		expected []domain.PositionRating
	}{
		{
			name: "labelled numeric",
			body: "Recipe 1: 4\nRecipe 2: 5",
			expected: []domain.PositionRating{
				{Position: 1, Stars: 4},
				{Position: 2, Stars: 5},
			},
		},
		{
			name: "bare numeric",
			body: "1: 3\n2: 4",
			expected: []domain.PositionRating{
				{Position: 1, Stars: 3},
				{Position: 2, Stars: 4},
			},
		},
		{
			name: "comma separated on one line",
			body: "Recipe 1: 4, Recipe 2: 5",
			expected: []domain.PositionRating{
				{Position: 1, Stars: 4},
				{Position: 2, Stars: 5},
			},
		},
		{
			name: "with stars suffix",
			body: "recipe 1: 4 stars",
			expected: []domain.PositionRating{
				{Position: 1, Stars: 4},
			},
		},
		{
			name: "out of five",
			body: "Recipe 2: 3/5",
			expected: []domain.PositionRating{
				{Position: 2, Stars: 3},
			},
		},
		{
			name: "star emoji",
			body: "Recipe 1: ⭐⭐⭐⭐",
			expected: []domain.PositionRating{
				{Position: 1, Stars: 4},
			},
		},
		{
			name: "unicode star glyphs",
			body: "1: ★★★",
			expected: []domain.PositionRating{
				{Position: 1, Stars: 3},
			},
		},
		{
			name: "reversed with ordinal",
			body: "5 stars for the first one, 3 stars for the second",
			expected: []domain.PositionRating{
				{Position: 1, Stars: 5},
				{Position: 2, Stars: 3},
			},
		},
		{
			name: "reversed out of five",
			body: "4/5 for recipe 2",
			expected: []domain.PositionRating{
				{Position: 2, Stars: 4},
			},
		},
		{
			name: "surrounding chatter",
			body: "Hi!\n\nMade the pad thai last night, it was great.\nRecipe 1: 5\n\nCheers",
			expected: []domain.PositionRating{
				{Position: 1, Stars: 5},
			},
		},
		{
			name:     "no ratings",
			body:     "Thanks, these look delicious!",
			expected: nil,
		},
		{
			name: "first mention of a position wins",
			body: "Recipe 1: 5\nRecipe 1: 2",
			expected: []domain.PositionRating{
				{Position: 1, Stars: 5},
			},
		},
		{
			name:     "ignores quoted original message",
			body:     "Looks good!\n\nOn Mon, Mar 3, 2025 at 8:00 AM Daily Dish wrote:\n> Recipe 1: Pad Thai\n> Recipe 2: Tacos",
			expected: nil,
		},
		{
			name:     "ignores quoted lines",
			body:     "> Recipe 1: 4\nnothing from me",
			expected: nil,
		},
		{
			name:     "ignores signature",
			body:     "-- \nAlex\nRecipe 1: 4",
			expected: nil,
		},
		{
			name: "rating before signature still counts",
			body: "Recipe 2: 5\n-- \nAlex",
			expected: []domain.PositionRating{
				{Position: 2, Stars: 5},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NewParser().ParseRatings(tt.body))
		})
	}
}

func TestParser_OutOfRangeStarsPassedThrough(t *testing.T) {
	// Star validation happens when the rating is applied, not here.
	ratings := NewParser().ParseRatings("Recipe 1: 9")
	assert.Equal(t, []domain.PositionRating{{Position: 1, Stars: 9}}, ratings)
}
