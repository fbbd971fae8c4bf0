package domain

import "time"

// MemoryState mirrors the scheduling engine's card representation. Every
// field is written back verbatim from the engine after each review; nothing
// in this package interprets the values beyond Due ordering.
type MemoryState struct {
	Due           time.Time `json:"due"`
	Stability     float64   `json:"stability"`
	Difficulty    float64   `json:"difficulty"`
	ElapsedDays   uint64    `json:"elapsed_days"`
	ScheduledDays uint64    `json:"scheduled_days"`
	Reps          uint64    `json:"reps"`
	Lapses        uint64    `json:"lapses"`
	State         int       `json:"state"` // engine-internal phase enum
	LastReview    time.Time `json:"last_review"`
}

// NewMemoryState returns the empty-card baseline: never reviewed, due
// immediately.
func NewMemoryState(now time.Time) MemoryState {
	return MemoryState{Due: now}
}

// ParseTimeOrNow parses an RFC3339 timestamp, falling back to now for
// empty or unparsable input. Invalid dates must never reach the
// scheduling math.
func ParseTimeOrNow(value string, now time.Time) time.Time {
	if value == "" {
		return now
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return now
	}
	return t
}

// IsDueBefore reports whether the card is due strictly before the cutoff.
// A zero Due is treated as due immediately.
func (m MemoryState) IsDueBefore(cutoff time.Time) bool {
	if m.Due.IsZero() {
		return true
	}
	return m.Due.Before(cutoff)
}
