package srs

import "github.com/lexvault/lexvault-api/internal/domain"

// ProficiencyParams defines the tuning constants of the 0-5 mastery
// heuristic. The score is a presentation metric independent of the
// scheduling engine's own memory model; the defaults preserve the
// established behavior and are not load-bearing for correctness.
type ProficiencyParams struct {
	// Min and Max bound the score.
	Min int
	Max int

	// NeutralGrade is the grade that leaves the score unchanged
	// (delta = grade - NeutralGrade).
	NeutralGrade domain.Grade

	// FirstCorrectFloor is the minimum score after a correct recall of a
	// never-graded word, so first progress visibly registers.
	FirstCorrectFloor int
}

// NewDefaultProficiencyParams creates ProficiencyParams with the default
// constants.
func NewDefaultProficiencyParams() *ProficiencyParams {
	return &ProficiencyParams{
		Min:               0,
		Max:               5,
		NeutralGrade:      domain.GradeGood,
		FirstCorrectFloor: 1,
	}
}

// NextProficiency computes the updated mastery score from the previous
// score and the review grade: Good is neutral, Easy +1, Hard -1, Again -2,
// clamped to [Min, Max]. A nil params uses defaults.
func NextProficiency(prev int, grade domain.Grade, params *ProficiencyParams) int {
	if params == nil {
		params = NewDefaultProficiencyParams()
	}

	score := prev + int(grade) - int(params.NeutralGrade)

	if score < params.Min {
		score = params.Min
	}
	if score > params.Max {
		score = params.Max
	}

	// A first correct recall of a never-graded word must register progress.
	if prev == 0 && grade >= params.NeutralGrade && score < params.FirstCorrectFloor {
		score = params.FirstCorrectFloor
	}

	return score
}
