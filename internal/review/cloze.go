package review

import (
	"strings"
	"unicode"

	"github.com/lexvault/lexvault-api/internal/review/morph"
	"github.com/samber/lo"
)

// BlankToken replaces the target word's occurrences in a masked sentence.
const BlankToken = "_____"

// Resolution holds the accepted answers for a cloze prompt derived from an
// example sentence, the surface forms actually used in the sentence, and
// the masked sentence shown to the learner.
type Resolution struct {
	Target         string   `json:"target"`
	ValidAnswers   []string `json:"valid_answers"`
	ContextMatches []string `json:"context_matches"`
	MaskedSentence string   `json:"masked_sentence"`
}

// ResolveCloze derives the full set of acceptable surface forms for a
// target word in an example sentence. The accepted set is seeded with the
// bare target; literal occurrences plus inflected verb and noun forms
// located by the analyzer join it as context matches, and every distinct
// context-match substring is blanked out of the sentence.
func ResolveCloze(analyzer morph.Analyzer, sentence, target string) Resolution {
	bare := strings.ToLower(strings.TrimSpace(target))

	var matches []string

	// Literal occurrences of the target, in their original casing.
	for _, token := range splitWords(sentence) {
		if strings.EqualFold(token, bare) {
			matches = append(matches, token)
		}
	}

	// Inflected verb forms whose infinitive is the target.
	for _, vp := range analyzer.VerbPhrases(sentence) {
		if strings.EqualFold(vp.Infinitive, bare) {
			matches = append(matches, vp.Root)
		}
	}

	// Noun forms whose singularized head is the target.
	for _, np := range analyzer.NounPhrases(sentence) {
		if strings.EqualFold(np.SingularForm, bare) {
			matches = append(matches, np.Text)
		}
	}

	// Distinct surface forms; case variants stay separate so each exact
	// substring can be masked.
	matches = lo.Uniq(matches)

	valid := append([]string{bare}, lo.Map(matches, func(m string, _ int) string {
		return strings.ToLower(m)
	})...)
	valid = lo.Uniq(valid)

	masked := sentence
	for _, m := range matches {
		masked = strings.ReplaceAll(masked, m, BlankToken)
	}

	return Resolution{
		Target:         bare,
		ValidAnswers:   valid,
		ContextMatches: matches,
		MaskedSentence: masked,
	}
}

// splitWords breaks a sentence into word tokens, keeping inner apostrophes.
func splitWords(sentence string) []string {
	return strings.FieldsFunc(sentence, func(r rune) bool {
		return !unicode.IsLetter(r) && r != '\''
	})
}

// Accepts reports whether the (lower-cased, trimmed) answer is in the
// accepted set.
func (r Resolution) Accepts(answer string) bool {
	return lo.Contains(r.ValidAnswers, strings.ToLower(strings.TrimSpace(answer)))
}

// Classify grades an accepted answer's relationship to the sentence. An
// answer equal to the bare target while the sentence used only different
// inflected forms is a root match, and the in-context form is returned for
// learning feedback. Non-accepted answers classify as incorrect.
func (r Resolution) Classify(answer string) (Feedback, string) {
	normalized := strings.ToLower(strings.TrimSpace(answer))

	if !r.Accepts(normalized) {
		return FeedbackIncorrect, ""
	}

	if normalized == r.Target && len(r.ContextMatches) > 0 {
		usedBareForm := lo.ContainsBy(r.ContextMatches, func(m string) bool {
			return strings.EqualFold(m, r.Target)
		})
		if !usedBareForm {
			return FeedbackRootMatch, r.ContextMatches[0]
		}
	}

	return FeedbackCorrect, ""
}
