// Package morph defines the narrow morphological-analysis capability the
// review engine consumes, together with a rule-based English
// implementation. Richer analyzers can satisfy the same interface without
// touching the cloze resolver.
package morph

// VerbPhrase is a verb occurrence in a sentence: the surface form as it
// appears and its infinitive (lemma).
type VerbPhrase struct {
	Infinitive string
	Root       string
}

// NounPhrase is a noun occurrence in a sentence: the surface head word as
// it appears and its singularized form.
type NounPhrase struct {
	Text         string
	SingularForm string
}

// Analyzer locates verb and noun phrases in a sentence. Implementations
// must preserve the original surface casing in Root and Text.
type Analyzer interface {
	VerbPhrases(sentence string) []VerbPhrase
	NounPhrases(sentence string) []NounPhrase
}
