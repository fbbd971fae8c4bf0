package morph

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVerbPhrases_Infinitives(t *testing.T) {
	t.Parallel()

	tests := []struct {
		sentence string
		root     string
		lemma    string
	}{
		{"He abandoned ship.", "abandoned", "abandon"},
		{"She is hoping for rain.", "hoping", "hope"},
		{"They were running fast.", "running", "run"},
		{"He studied all night.", "studied", "study"},
		{"She abandons the plan.", "abandons", "abandon"},
		{"He watches birds.", "watches", "watch"},
		{"We walk home.", "walk", "walk"},
	}

	a := NewRuleAnalyzer()
	for _, tt := range tests {
		t.Run(tt.root, func(t *testing.T) {
			found := false
			for _, vp := range a.VerbPhrases(tt.sentence) {
				if vp.Root == tt.root && vp.Infinitive == tt.lemma {
					found = true
				}
			}
			assert.True(t, found, "expected %q -> %q among verb phrases", tt.root, tt.lemma)
		})
	}
}

func TestVerbPhrases_PreservesSurfaceCase(t *testing.T) {
	t.Parallel()

	a := NewRuleAnalyzer()
	phrases := a.VerbPhrases("Abandoned again.")

	found := false
	for _, vp := range phrases {
		if vp.Root == "Abandoned" && vp.Infinitive == "abandon" {
			found = true
		}
	}
	assert.True(t, found, "surface casing must be preserved in Root")
}

func TestNounPhrases_Singulars(t *testing.T) {
	t.Parallel()

	tests := []struct {
		token    string
		singular string
	}{
		{"cars", "car"},
		{"cities", "city"},
		{"boxes", "box"},
		{"glass", "glass"},
		{"wolves", "wolf"},
		{"word", "word"},
	}

	a := NewRuleAnalyzer()
	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			found := false
			for _, np := range a.NounPhrases("the " + tt.token + " here") {
				if np.Text == tt.token && np.SingularForm == tt.singular {
					found = true
				}
			}
			assert.True(t, found, "expected %q -> %q among noun phrases", tt.token, tt.singular)
		})
	}
}

func TestTokenize(t *testing.T) {
	t.Parallel()

	tokens := tokenize("We had to abandon the car, didn't we?")
	assert.Equal(t, []string{"We", "had", "to", "abandon", "the", "car", "didn't", "we"}, tokens)
}
