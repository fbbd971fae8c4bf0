package morph

import (
	"strings"
	"unicode"
)

// RuleAnalyzer is a dependency-free Analyzer built on English suffix
// rules. It over-generates candidate lemmas; callers compare candidates
// against a known target word, so false candidates are harmless.
type RuleAnalyzer struct{}

// NewRuleAnalyzer creates a rule-based analyzer.
func NewRuleAnalyzer() *RuleAnalyzer {
	return &RuleAnalyzer{}
}

var _ Analyzer = (*RuleAnalyzer)(nil)

// VerbPhrases returns one VerbPhrase per candidate infinitive of each
// token in the sentence.
func (a *RuleAnalyzer) VerbPhrases(sentence string) []VerbPhrase {
	var phrases []VerbPhrase
	for _, token := range tokenize(sentence) {
		for _, lemma := range verbLemmas(strings.ToLower(token)) {
			phrases = append(phrases, VerbPhrase{Infinitive: lemma, Root: token})
		}
	}
	return phrases
}

// NounPhrases returns each token with its best-guess singular form.
func (a *RuleAnalyzer) NounPhrases(sentence string) []NounPhrase {
	var phrases []NounPhrase
	for _, token := range tokenize(sentence) {
		phrases = append(phrases, NounPhrase{
			Text:         token,
			SingularForm: singularize(strings.ToLower(token)),
		})
	}
	return phrases
}

// tokenize splits a sentence into word tokens, keeping inner apostrophes.
func tokenize(sentence string) []string {
	return strings.FieldsFunc(sentence, func(r rune) bool {
		return !unicode.IsLetter(r) && r != '\''
	})
}

// verbLemmas generates candidate infinitives for a lower-cased token. The
// token itself is always a candidate (it may already be the base form).
func verbLemmas(token string) []string {
	candidates := []string{token}

	add := func(lemma string) {
		if lemma == "" {
			return
		}
		for _, c := range candidates {
			if c == lemma {
				return
			}
		}
		candidates = append(candidates, lemma)
	}

	switch {
	case strings.HasSuffix(token, "ied") && len(token) > 3:
		// studied -> study
		add(token[:len(token)-3] + "y")

	case strings.HasSuffix(token, "ed") && len(token) > 2:
		stem := token[:len(token)-2]
		// abandoned -> abandon
		add(stem)
		// hoped -> hope
		add(stem + "e")
		// stopped -> stop
		add(undouble(stem))

	case strings.HasSuffix(token, "ing") && len(token) > 3:
		stem := token[:len(token)-3]
		// walking -> walk
		add(stem)
		// hoping -> hope
		add(stem + "e")
		// running -> run
		add(undouble(stem))

	case strings.HasSuffix(token, "ies") && len(token) > 3:
		// carries -> carry
		add(token[:len(token)-3] + "y")

	case strings.HasSuffix(token, "es") && len(token) > 2:
		// watches -> watch
		add(token[:len(token)-2])
		// notes -> note
		add(token[:len(token)-1])

	case strings.HasSuffix(token, "s") && len(token) > 1:
		// abandons -> abandon
		add(token[:len(token)-1])
	}

	return candidates
}

// singularize returns the best-guess singular of a lower-cased noun.
func singularize(token string) string {
	switch {
	case strings.HasSuffix(token, "ies") && len(token) > 3:
		// cities -> city
		return token[:len(token)-3] + "y"
	case strings.HasSuffix(token, "ves") && len(token) > 3:
		// wolves -> wolf; knife-style plurals are close enough for
		// equality checks against a known target
		return token[:len(token)-3] + "f"
	case hasAnySuffix(token, "ches", "shes", "sses", "xes", "zes"):
		return token[:len(token)-2]
	case strings.HasSuffix(token, "ss"), strings.HasSuffix(token, "us"):
		// glass, bus: already singular
		return token
	case strings.HasSuffix(token, "s") && len(token) > 1:
		return token[:len(token)-1]
	default:
		return token
	}
}

// undouble collapses a doubled final consonant (stopp -> stop).
func undouble(stem string) string {
	n := len(stem)
	if n >= 2 && stem[n-1] == stem[n-2] && !isVowel(rune(stem[n-1])) {
		return stem[:n-1]
	}
	return ""
}

func isVowel(r rune) bool {
	return strings.ContainsRune("aeiou", r)
}

func hasAnySuffix(token string, suffixes ...string) bool {
	for _, suffix := range suffixes {
		if strings.HasSuffix(token, suffix) && len(token) > len(suffix) {
			return true
		}
	}
	return false
}
