package domain

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"sort"
	"time"
)

// Phase of the explore/exploit schedule, determined by cumulative rating count.
type Phase string

const (
	PhaseColdStart    Phase = "cold_start"
	PhaseLearning     Phase = "learning"
	PhasePersonalized Phase = "personalized"
)

// LearningPhaseMaxRatings is the rating count at which selection moves
// from the Learning split to the Personalized split.
const LearningPhaseMaxRatings = 20

// Share of slots filled from top-scoring matches; the rest are
// uniform-random exploration.
const (
	LearningExploitationRatio     = 0.7
	PersonalizedExploitationRatio = 0.8
)

// ErrInvalidSelectCount is returned when a selection is requested with a
// non-positive count. Caller misconfiguration, fatal to that call only.
var ErrInvalidSelectCount = errors.New("selection count must be positive")

// PhaseForRatingCount returns the selection phase for a cumulative
// rating count.
func PhaseForRatingCount(totalRatings int) Phase {
	switch {
	case totalRatings == 0:
		return PhaseColdStart
	case totalRatings <= LearningPhaseMaxRatings:
		return PhaseLearning
	default:
		return PhasePersonalized
	}
}

// SelectionInput carries everything one selection needs. The selector
// performs no I/O; collaborators hand it the catalog, history and
// preference state.
type SelectionInput struct {
	Count        int
	Candidates   []Recipe
	SendHistory  []SendRecord
	Preferences  PreferenceSet
	TotalRatings int
	Now          time.Time
}

// Selector picks the recipes for one daily send. Randomness comes from
// the injected generator so tests can substitute a seeded source.
type Selector struct {
	rng *rand.Rand
}

func NewSelector(rng *rand.Rand) *Selector {
	return &Selector{rng: rng}
}

// Select returns up to Count recipes, ordered as they should appear in
// the email: match slots first, exploration slots after. Recipes sent
// within the no-repeat window are excluded. Fewer eligible candidates
// than Count degrades to a shorter list rather than erroring; an empty
// catalog returns an empty list.
func (s *Selector) Select(in SelectionInput) ([]Recipe, error) {
	if in.Count <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidSelectCount, in.Count)
	}

	eligible := eligibleCandidates(in.Candidates, in.SendHistory, in.Now)
	if len(eligible) == 0 {
		return nil, nil
	}

	switch PhaseForRatingCount(in.TotalRatings) {
	case PhaseColdStart:
		return s.selectDiverse(eligible, in.Count), nil
	case PhaseLearning:
		return s.selectByPreference(eligible, in.Count, LearningExploitationRatio, in.Preferences), nil
	default:
		return s.selectByPreference(eligible, in.Count, PersonalizedExploitationRatio, in.Preferences), nil
	}
}

// eligibleCandidates drops recipes whose most recent send falls within
// the no-repeat window.
func eligibleCandidates(candidates []Recipe, history []SendRecord, now time.Time) []Recipe {
	cutoff := now.Add(-NoRepeatWindow)
	recentlySent := make(map[int64]bool)
	for _, record := range history {
		if record.SentAt.After(cutoff) {
			recentlySent[record.RecipeID] = true
		}
	}

	eligible := make([]Recipe, 0, len(candidates))
	for _, recipe := range candidates {
		if !recentlySent[recipe.ID] {
			eligible = append(eligible, recipe)
		}
	}
	return eligible
}

// selectDiverse picks uniformly at random with a cuisine diversity
// constraint: no two selections share a cuisine unless the pool has
// fewer distinct cuisines than slots. Cold start strategy.
func (s *Selector) selectDiverse(pool []Recipe, count int) []Recipe {
	shuffled := s.shuffled(pool)

	selected := make([]Recipe, 0, count)
	usedCuisines := make(map[string]bool)
	taken := make(map[int64]bool)

	for _, recipe := range shuffled {
		if len(selected) >= count {
			break
		}
		if usedCuisines[recipe.Cuisine] {
			continue
		}
		selected = append(selected, recipe)
		usedCuisines[recipe.Cuisine] = true
		taken[recipe.ID] = true
	}

	// Fill remaining slots ignoring the cuisine constraint.
	for _, recipe := range shuffled {
		if len(selected) >= count {
			break
		}
		if taken[recipe.ID] {
			continue
		}
		selected = append(selected, recipe)
		taken[recipe.ID] = true
	}

	return selected
}

// selectByPreference fills floor(count * ratio) slots with top-scoring
// matches and the rest with uniform-random exploration picks from the
// remaining pool. Learning and Personalized strategy.
func (s *Selector) selectByPreference(
	pool []Recipe, count int, exploitationRatio float64, prefs PreferenceSet,
) []Recipe {
	matchCount := int(float64(count) * exploitationRatio)
	if matchCount > len(pool) {
		matchCount = len(pool)
	}

	ranked := s.rankCandidates(pool, prefs)

	selected := make([]Recipe, 0, count)
	usedCuisines := make(map[string]bool)

	for len(selected) < matchCount {
		idx := topMatchIndex(ranked, prefs, usedCuisines)
		selected = append(selected, ranked[idx])
		usedCuisines[ranked[idx].Cuisine] = true
		ranked = append(ranked[:idx], ranked[idx+1:]...)
	}

	for len(selected) < count && len(ranked) > 0 {
		idx := s.exploreIndex(ranked, usedCuisines)
		selected = append(selected, ranked[idx])
		usedCuisines[ranked[idx].Cuisine] = true
		ranked = append(ranked[:idx], ranked[idx+1:]...)
	}

	return selected
}

// rankCandidates orders by preference score descending, ties broken by
// most recent catalog addition, then by shuffle order. The random
// tie-break comes from shuffling before the stable sort.
func (s *Selector) rankCandidates(pool []Recipe, prefs PreferenceSet) []Recipe {
	ranked := s.shuffled(pool)
	sort.SliceStable(ranked, func(i, j int) bool {
		si, sj := prefs.RecipeScore(ranked[i]), prefs.RecipeScore(ranked[j])
		if si != sj {
			return si > sj
		}
		return ranked[i].AddedAt.After(ranked[j].AddedAt)
	})
	return ranked
}

// topMatchIndex returns the index to take for a match slot: within the
// leading run of equal-scored candidates, prefer one whose cuisine is
// not yet represented in the batch.
func topMatchIndex(ranked []Recipe, prefs PreferenceSet, usedCuisines map[string]bool) int {
	topScore := prefs.RecipeScore(ranked[0])
	for i := 0; i < len(ranked); i++ {
		if prefs.RecipeScore(ranked[i]) != topScore {
			break
		}
		if !usedCuisines[ranked[i].Cuisine] {
			return i
		}
	}
	return 0
}

// exploreIndex returns a uniform-random index, drawn from the subset of
// candidates with an unrepresented cuisine when one exists.
func (s *Selector) exploreIndex(pool []Recipe, usedCuisines map[string]bool) int {
	fresh := make([]int, 0, len(pool))
	for i, recipe := range pool {
		if !usedCuisines[recipe.Cuisine] {
			fresh = append(fresh, i)
		}
	}
	if len(fresh) > 0 {
		return fresh[s.rng.IntN(len(fresh))]
	}
	return s.rng.IntN(len(pool))
}

func (s *Selector) shuffled(pool []Recipe) []Recipe {
	shuffled := make([]Recipe, len(pool))
	copy(shuffled, pool)
	s.rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	return shuffled
}
