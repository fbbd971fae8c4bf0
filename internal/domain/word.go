package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Word-specific validation errors
var (
	// ErrWordIDEmpty is returned when a word ID is empty or nil.
	ErrWordIDEmpty = errors.New("word ID cannot be empty")

	// ErrWordTextEmpty is returned when a word's text is empty.
	ErrWordTextEmpty = errors.New("word text cannot be empty")

	// ErrProficiencyOutOfRange is returned when a proficiency score falls
	// outside the [0,5] range.
	ErrProficiencyOutOfRange = errors.New("proficiency score must be between 0 and 5")
)

// DefinitionEntry is one sense of a vocabulary word: its definition, a
// translation into the learner's language, and example usage.
type DefinitionEntry struct {
	Definition  string   `json:"definition"`
	Translation string   `json:"translation,omitempty"`
	Example     string   `json:"example,omitempty"`
	Examples    []string `json:"examples,omitempty"`
}

// VocabularyWord represents a learned item. The Memory field is owned by
// the scheduling engine round-trip; ProficiencyScore is an independent
// presentation metric maintained by the proficiency scorer.
type VocabularyWord struct {
	ID               uuid.UUID         `json:"id"`
	Word             string            `json:"word"`
	PartOfSpeech     string            `json:"part_of_speech,omitempty"`
	Definitions      []DefinitionEntry `json:"definitions"`
	FolderIDs        []uuid.UUID       `json:"folder_ids"`
	Memory           MemoryState       `json:"memory"`
	ProficiencyScore int               `json:"proficiency_score"`
	AudioURL         string            `json:"audio_url,omitempty"`
	CreatedAt        time.Time         `json:"created_at"`
	UpdatedAt        time.Time         `json:"updated_at"`
}

// NewVocabularyWord creates a new word with a fresh ID and an empty memory
// state due immediately. Returns an error if validation fails.
func NewVocabularyWord(text string, definitions []DefinitionEntry) (*VocabularyWord, error) {
	now := time.Now().UTC()
	word := &VocabularyWord{
		ID:          uuid.New(),
		Word:        text,
		Definitions: definitions,
		Memory:      NewMemoryState(now),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := word.Validate(); err != nil {
		return nil, err
	}

	return word, nil
}

// Validate checks if the VocabularyWord has valid data.
// Returns an error if any field fails validation.
func (w *VocabularyWord) Validate() error {
	if w.ID == uuid.Nil {
		return ErrWordIDEmpty
	}

	if w.Word == "" {
		return ErrWordTextEmpty
	}

	if w.ProficiencyScore < 0 || w.ProficiencyScore > 5 {
		return ErrProficiencyOutOfRange
	}

	return nil
}

// InFolder reports whether the word belongs to the given folder.
func (w *VocabularyWord) InFolder(folderID uuid.UUID) bool {
	for _, id := range w.FolderIDs {
		if id == folderID {
			return true
		}
	}
	return false
}

// PrimaryTranslation returns the first non-empty translation across the
// word's definition entries, or the empty string if none exists.
func (w *VocabularyWord) PrimaryTranslation() string {
	for _, entry := range w.Definitions {
		if entry.Translation != "" {
			return entry.Translation
		}
	}
	return ""
}

// PrimaryExample returns the first example sentence across the word's
// definition entries, or the empty string if none exists.
func (w *VocabularyWord) PrimaryExample() string {
	for _, entry := range w.Definitions {
		if entry.Example != "" {
			return entry.Example
		}
		if len(entry.Examples) > 0 {
			return entry.Examples[0]
		}
	}
	return ""
}
