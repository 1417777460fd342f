package domain

import "time"

// PreferenceScore is the learned cumulative score for one
// (dimension, value) pair. Exactly one exists per pair.
type PreferenceScore struct {
	Dimension Dimension `json:"dimension"`
	Value     string    `json:"value"`
	Score     float64   `json:"score"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PreferenceSet indexes preference scores for lookup during selection.
type PreferenceSet map[Dimension]map[string]float64

// NewPreferenceSet builds a PreferenceSet from stored scores.
func NewPreferenceSet(scores []PreferenceScore) PreferenceSet {
	set := make(PreferenceSet)
	for _, score := range scores {
		values, ok := set[score.Dimension]
		if !ok {
			values = make(map[string]float64)
			set[score.Dimension] = values
		}
		values[score.Value] = score.Score
	}
	return set
}

// Score returns the learned score for a (dimension, value) pair.
// Pairs never rated contribute 0.0.
func (p PreferenceSet) Score(dimension Dimension, value string) float64 {
	return p[dimension][value]
}

// RecipeScore sums the learned scores across the recipe's dimension values.
func (p PreferenceSet) RecipeScore(r Recipe) float64 {
	var total float64
	for dimension, value := range r.DimensionValues() {
		total += p.Score(dimension, value)
	}
	return total
}
