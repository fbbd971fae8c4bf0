package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestNewVocabularyWord(t *testing.T) {
	t.Parallel()

	word, err := NewVocabularyWord("abandon", []DefinitionEntry{
		{Definition: "to leave behind", Translation: "verlassen", Example: "We had to abandon the car."},
	})

	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if word.ID == uuid.Nil {
		t.Error("Expected non-nil UUID, got nil UUID")
	}

	if word.Word != "abandon" {
		t.Errorf("Expected word %q, got %q", "abandon", word.Word)
	}

	if word.ProficiencyScore != 0 {
		t.Errorf("Expected zero proficiency score, got %d", word.ProficiencyScore)
	}

	if word.Memory.Due.IsZero() {
		t.Error("Expected new word to be due immediately, got zero due time")
	}
}

func TestNewVocabularyWord_EmptyText(t *testing.T) {
	t.Parallel()

	_, err := NewVocabularyWord("", nil)
	if err != ErrWordTextEmpty {
		t.Errorf("Expected ErrWordTextEmpty, got %v", err)
	}
}

func TestVocabularyWordValidate_ProficiencyRange(t *testing.T) {
	t.Parallel()

	word, err := NewVocabularyWord("abandon", nil)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	word.ProficiencyScore = 6
	if err := word.Validate(); err != ErrProficiencyOutOfRange {
		t.Errorf("Expected ErrProficiencyOutOfRange for score 6, got %v", err)
	}

	word.ProficiencyScore = -1
	if err := word.Validate(); err != ErrProficiencyOutOfRange {
		t.Errorf("Expected ErrProficiencyOutOfRange for score -1, got %v", err)
	}
}

func TestVocabularyWordPrimaryAccessors(t *testing.T) {
	t.Parallel()

	word := &VocabularyWord{
		ID:   uuid.New(),
		Word: "abandon",
		Definitions: []DefinitionEntry{
			{Definition: "first sense"},
			{Definition: "second sense", Translation: "verlassen", Examples: []string{"He abandoned ship."}},
		},
	}

	if got := word.PrimaryTranslation(); got != "verlassen" {
		t.Errorf("Expected translation %q, got %q", "verlassen", got)
	}

	if got := word.PrimaryExample(); got != "He abandoned ship." {
		t.Errorf("Expected example from Examples list, got %q", got)
	}
}

func TestParseTimeOrNow(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	valid := "2024-04-01T08:30:00Z"
	parsed := ParseTimeOrNow(valid, now)
	if parsed.Equal(now) {
		t.Error("Expected valid timestamp to parse, got fallback")
	}

	for _, invalid := range []string{"", "not-a-date", "2024-13-99"} {
		if got := ParseTimeOrNow(invalid, now); !got.Equal(now) {
			t.Errorf("Expected fallback to now for %q, got %v", invalid, got)
		}
	}
}

func TestGradeValidate(t *testing.T) {
	t.Parallel()

	for g := GradeAgain; g <= GradeEasy; g++ {
		if err := g.Validate(); err != nil {
			t.Errorf("Expected grade %d to be valid, got %v", g, err)
		}
	}

	for _, g := range []Grade{0, 5, -1} {
		if err := g.Validate(); err != ErrInvalidGrade {
			t.Errorf("Expected ErrInvalidGrade for %d, got %v", g, err)
		}
	}
}

func TestQuizModeStrict(t *testing.T) {
	t.Parallel()

	if ModeFlashcard.Strict() {
		t.Error("Expected flashcard mode to be self-graded")
	}

	for _, m := range []QuizMode{ModeSpelling, ModeCloze, ModeDictation} {
		if !m.Strict() {
			t.Errorf("Expected mode %q to be strict", m)
		}
	}

	if err := QuizMode("listening").Validate(); err != ErrInvalidQuizMode {
		t.Errorf("Expected ErrInvalidQuizMode, got %v", err)
	}
}
