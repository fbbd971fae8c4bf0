package review

import (
	"math/rand"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/lexvault/lexvault-api/internal/domain"
	"github.com/samber/lo"
)

// DefaultBatchSize caps a review session's queue.
const DefaultBatchSize = 10

// SelectBatch assembles a prioritized, size-bounded review queue from the
// word pool. Overdue words (due before the next local midnight) come
// first, soonest first; remaining slots are filled with new words in pool
// order, then the least-stale not-yet-due words. The final set is shuffled
// so a word's position never betrays its urgency. A pool no larger than
// batchSize is returned unchanged. A nil rng uses the global source.
func SelectBatch(
	pool []*domain.VocabularyWord,
	batchSize int,
	now time.Time,
	rng *rand.Rand,
) []*domain.VocabularyWord {
	if len(pool) <= batchSize {
		return pool
	}

	batch := selectBatchOrdered(pool, batchSize, now)

	swap := func(i, j int) { batch[i], batch[j] = batch[j], batch[i] }
	if rng != nil {
		rng.Shuffle(len(batch), swap)
	} else {
		rand.Shuffle(len(batch), swap)
	}

	return batch
}

// selectBatchOrdered is the deterministic pre-shuffle selection: a pure
// function of (pool, now).
func selectBatchOrdered(
	pool []*domain.VocabularyWord,
	batchSize int,
	now time.Time,
) []*domain.VocabularyWord {
	cutoff := rolloverCutoff(now)

	due := lo.Filter(pool, func(w *domain.VocabularyWord, _ int) bool {
		return w.Memory.IsDueBefore(cutoff)
	})
	sort.SliceStable(due, func(i, j int) bool {
		return due[i].Memory.Due.Before(due[j].Memory.Due)
	})

	if len(due) >= batchSize {
		return due[:batchSize]
	}

	selected := make([]*domain.VocabularyWord, 0, batchSize)
	selected = append(selected, due...)
	taken := make(map[uuid.UUID]bool, batchSize)
	for _, w := range selected {
		taken[w.ID] = true
	}

	// First backfill tier: new words in pool order.
	for _, w := range pool {
		if len(selected) == batchSize {
			break
		}
		if w.ProficiencyScore == 0 && !taken[w.ID] {
			selected = append(selected, w)
			taken[w.ID] = true
		}
	}

	// Second backfill tier: not-yet-due words, least stale first.
	notDue := lo.Filter(pool, func(w *domain.VocabularyWord, _ int) bool {
		return !taken[w.ID]
	})
	sort.SliceStable(notDue, func(i, j int) bool {
		return notDue[i].Memory.Due.Before(notDue[j].Memory.Due)
	})
	for _, w := range notDue {
		if len(selected) == batchSize {
			break
		}
		selected = append(selected, w)
		taken[w.ID] = true
	}

	if len(selected) > batchSize {
		selected = selected[:batchSize]
	}
	return selected
}

// rolloverCutoff is the next occurrence of local midnight after now: a
// card due later today still counts as due this session.
func rolloverCutoff(now time.Time) time.Time {
	year, month, day := now.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, now.Location()).AddDate(0, 0, 1)
}
