// Package srs adapts the external spaced-repetition scheduling engine to
// the domain model. The scheduling math itself lives entirely in the
// engine; this package only maps grades to its rating vocabulary, round-
// trips the card representation, and applies due-date fuzzing.
package srs

import (
	"math/rand"
	"time"

	"github.com/lexvault/lexvault-api/internal/domain"
	fsrs "github.com/open-spaced-repetition/go-fsrs"
)

// Params defines the configurable scheduling parameters.
type Params struct {
	// RetentionTarget is the recall probability requested from the engine.
	RetentionTarget float64

	// FuzzThresholdDays: intervals longer than this get their due date
	// jittered so cards reviewed together don't all land on the same
	// future day.
	FuzzThresholdDays uint64

	// FuzzRatio is the maximum relative jitter (0.05 yields a uniform
	// factor in [0.95, 1.05] applied to the now->due interval).
	FuzzRatio float64
}

// NewDefaultParams creates a new Params instance with default values.
func NewDefaultParams() *Params {
	return &Params{
		RetentionTarget:   0.9,
		FuzzThresholdDays: 2,
		FuzzRatio:         0.05,
	}
}

// Scheduler wraps the scheduling engine for a fixed parameter set.
type Scheduler struct {
	engine            fsrs.Parameters
	fuzzThresholdDays uint64
	fuzzRatio         float64
	rng               *rand.Rand
}

// NewScheduler creates a Scheduler with the given parameters and random
// source. A nil params uses defaults; a nil rng is seeded from the clock.
func NewScheduler(params *Params, rng *rand.Rand) *Scheduler {
	if params == nil {
		params = NewDefaultParams()
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	engine := fsrs.DefaultParam()
	engine.RequestRetention = params.RetentionTarget

	return &Scheduler{
		engine:            engine,
		fuzzThresholdDays: params.FuzzThresholdDays,
		fuzzRatio:         params.FuzzRatio,
		rng:               rng,
	}
}

// Schedule applies a review grade to a word's memory state and returns the
// engine's updated state, ready to merge back into the word. The due date
// is fuzzed when the scheduled interval exceeds the configured threshold.
func (s *Scheduler) Schedule(
	mem domain.MemoryState,
	grade domain.Grade,
	now time.Time,
) (domain.MemoryState, error) {
	if err := grade.Validate(); err != nil {
		return domain.MemoryState{}, err
	}

	card := cardFromMemory(mem, now)

	// The engine computes all four rating branches; select the one
	// matching the submitted grade.
	record := s.engine.Repeat(card, now)
	next := record[ratingForGrade(grade)].Card

	updated := memoryFromCard(next)

	if next.ScheduledDays > s.fuzzThresholdDays && s.fuzzRatio > 0 {
		updated.Due = s.fuzzDue(now, next.Due)
	}

	return updated, nil
}

// fuzzDue jitters the now->due interval by a uniform random factor in
// [1-fuzzRatio, 1+fuzzRatio].
func (s *Scheduler) fuzzDue(now, due time.Time) time.Time {
	interval := due.Sub(now)
	factor := 1 + s.fuzzRatio*(2*s.rng.Float64()-1)
	return now.Add(time.Duration(float64(interval) * factor))
}

// ratingForGrade maps the 1-4 grade scale onto the engine's rating
// vocabulary.
func ratingForGrade(grade domain.Grade) fsrs.Rating {
	switch grade {
	case domain.GradeAgain:
		return fsrs.Again
	case domain.GradeHard:
		return fsrs.Hard
	case domain.GradeEasy:
		return fsrs.Easy
	default:
		return fsrs.Good
	}
}

// cardFromMemory reconstructs the engine's card representation from the
// stored memory state. A never-reviewed state maps to the engine's
// empty-card baseline; missing timestamps default to now.
func cardFromMemory(mem domain.MemoryState, now time.Time) fsrs.Card {
	card := fsrs.NewCard()

	if mem.Reps == 0 && mem.Stability == 0 && mem.LastReview.IsZero() {
		card.Due = now
		return card
	}

	card.Stability = mem.Stability
	card.Difficulty = mem.Difficulty
	card.ElapsedDays = mem.ElapsedDays
	card.ScheduledDays = mem.ScheduledDays
	card.Reps = mem.Reps
	card.Lapses = mem.Lapses
	card.State = fsrs.State(mem.State)

	card.Due = mem.Due
	if card.Due.IsZero() {
		card.Due = now
	}
	card.LastReview = mem.LastReview
	if card.LastReview.IsZero() {
		card.LastReview = now
	}

	return card
}

// memoryFromCard serializes the engine's card back into the domain
// memory state.
func memoryFromCard(card fsrs.Card) domain.MemoryState {
	return domain.MemoryState{
		Due:           card.Due,
		Stability:     card.Stability,
		Difficulty:    card.Difficulty,
		ElapsedDays:   card.ElapsedDays,
		ScheduledDays: card.ScheduledDays,
		Reps:          card.Reps,
		Lapses:        card.Lapses,
		State:         int(card.State),
		LastReview:    card.LastReview,
	}
}
