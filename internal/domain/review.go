package domain

import "errors"

// Review-specific validation errors
var (
	// ErrInvalidGrade is returned when a grade is outside the 1-4 scale.
	ErrInvalidGrade = errors.New("grade must be between 1 (again) and 4 (easy)")

	// ErrInvalidQuizMode is returned for an unrecognized quiz mode.
	ErrInvalidQuizMode = errors.New("invalid quiz mode")
)

// Grade is the 1-4 review grade scale shared by every quiz mode.
type Grade int

// Grade values, mapped onto the scheduling engine's rating vocabulary.
const (
	GradeAgain Grade = 1
	GradeHard  Grade = 2
	GradeGood  Grade = 3
	GradeEasy  Grade = 4
)

// Validate checks that the grade is on the 1-4 scale.
func (g Grade) Validate() error {
	if g < GradeAgain || g > GradeEasy {
		return ErrInvalidGrade
	}
	return nil
}

// QuizMode selects how a card is prompted and graded during review.
type QuizMode string

// Supported quiz modes. Flashcard is self-graded; the other three are
// strict modes whose answers are typed and auto-graded.
const (
	ModeFlashcard QuizMode = "flashcard"
	ModeSpelling  QuizMode = "spelling"
	ModeCloze     QuizMode = "cloze"
	ModeDictation QuizMode = "dictation"
)

// Validate checks that the mode is one of the supported quiz modes.
func (m QuizMode) Validate() error {
	switch m {
	case ModeFlashcard, ModeSpelling, ModeCloze, ModeDictation:
		return nil
	default:
		return ErrInvalidQuizMode
	}
}

// Strict reports whether answers in this mode are typed and auto-graded
// rather than self-assessed.
func (m QuizMode) Strict() bool {
	return m != ModeFlashcard
}
