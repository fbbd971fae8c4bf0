// Package review implements the spaced-repetition review engine: answer
// grading, cloze resolution, batch selection, and the per-session state
// machine that composes them.
package review

import (
	"strings"

	"github.com/agext/levenshtein"
	"github.com/lexvault/lexvault-api/internal/domain"
)

// Feedback classifies a graded answer for presentation.
type Feedback string

// Feedback values.
const (
	FeedbackCorrect   Feedback = "correct"
	FeedbackTypo      Feedback = "typo"
	FeedbackIncorrect Feedback = "incorrect"

	// FeedbackRootMatch marks a cloze answer that matched the bare target
	// word while the sentence used a different inflected form: correct in
	// principle, surfaced separately so the in-context form can be shown.
	FeedbackRootMatch Feedback = "root_match"
)

// Evaluation is the outcome of grading a single typed answer.
type Evaluation struct {
	Grade      domain.Grade `json:"grade"`
	Feedback   Feedback     `json:"feedback"`
	AllowRetry bool         `json:"allow_retry"`
}

// typoMinLength: expected answers this short offer too little signal to
// distinguish a typo from a wrong word.
const typoMinLength = 3

// EvaluateAnswer grades a typed answer against the expected string. Both
// are lower-cased and trimmed. An exact match is Good; an edit distance of
// at most one on a long enough expected word is Hard (recalled, minor
// slip); anything else is Again with a retry offered. Pure function.
func EvaluateAnswer(typed, expected string) Evaluation {
	typed = strings.ToLower(strings.TrimSpace(typed))
	expected = strings.ToLower(strings.TrimSpace(expected))

	if typed == expected {
		return Evaluation{Grade: domain.GradeGood, Feedback: FeedbackCorrect}
	}

	if len([]rune(expected)) > typoMinLength &&
		levenshtein.Distance(typed, expected, nil) <= 1 {
		return Evaluation{Grade: domain.GradeHard, Feedback: FeedbackTypo}
	}

	return Evaluation{Grade: domain.GradeAgain, Feedback: FeedbackIncorrect, AllowRetry: true}
}
