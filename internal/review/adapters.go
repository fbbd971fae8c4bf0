package review

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lexvault/lexvault-api/internal/store"
)

// storeProgressAdapter adapts a store.WordStore to the ProgressStore
// collaborator, translating the store's schema-mismatch sentinel into
// the session's so the reduced-field retry can classify it.
type storeProgressAdapter struct {
	words store.WordStore
}

// NewStoreProgress wraps a word store as the session's persistence
// collaborator.
func NewStoreProgress(words store.WordStore) ProgressStore {
	if words == nil {
		panic("words cannot be nil")
	}
	return &storeProgressAdapter{words: words}
}

func (a *storeProgressAdapter) UpdateReviewFields(
	ctx context.Context,
	wordID uuid.UUID,
	fields map[string]any,
) error {
	err := a.words.UpdateReviewFields(ctx, wordID, fields)
	if errors.Is(err, store.ErrUnknownField) {
		return fmt.Errorf("%w: %v", ErrSchemaMismatch, err)
	}
	return err
}
