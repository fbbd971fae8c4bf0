package review

import (
	"context"
	"io"
	"log/slog"
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/lexvault/lexvault-api/internal/domain"
	"github.com/lexvault/lexvault-api/internal/review/morph"
	"github.com/lexvault/lexvault-api/internal/srs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type storeCall struct {
	wordID uuid.UUID
	fields map[string]any
}

// mockProgressStore records update calls and returns queued errors in order.
type mockProgressStore struct {
	mu    sync.Mutex
	calls []storeCall
	errs  []error
}

func (m *mockProgressStore) UpdateReviewFields(
	_ context.Context,
	wordID uuid.UUID,
	fields map[string]any,
) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, storeCall{wordID: wordID, fields: fields})
	if len(m.errs) > 0 {
		err := m.errs[0]
		m.errs = m.errs[1:]
		return err
	}
	return nil
}

func (m *mockProgressStore) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

func (m *mockProgressStore) call(i int) storeCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[i]
}

// mockAudioPlayer counts playback requests.
type mockAudioPlayer struct {
	mu    sync.Mutex
	plays []string
}

func (m *mockAudioPlayer) Play(_ context.Context, word, _ string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.plays = append(m.plays, word)
}

func (m *mockAudioPlayer) playCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.plays)
}

var testNow = time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

func testDeps(store ProgressStore, audio AudioPlayer) Deps {
	return Deps{
		Scheduler: srs.NewScheduler(nil, rand.New(rand.NewSource(1))),
		Analyzer:  morph.NewRuleAnalyzer(),
		Store:     store,
		Audio:     audio,
		Now:       func() time.Time { return testNow },
	}
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testWord(text string, proficiency int) *domain.VocabularyWord {
	return &domain.VocabularyWord{
		ID:   uuid.New(),
		Word: text,
		Definitions: []domain.DefinitionEntry{
			{Definition: "to leave behind", Translation: "verlassen", Example: "He abandoned ship."},
		},
		Memory:           domain.MemoryState{Due: testNow},
		ProficiencyScore: proficiency,
	}
}

func TestNewSession_EmptyQueue(t *testing.T) {
	t.Parallel()

	_, err := NewSession(nil, domain.ModeSpelling, testDeps(nil, nil), testLogger())
	assert.ErrorIs(t, err, ErrEmptyQueue)
}

func TestNewSession_InvalidMode(t *testing.T) {
	t.Parallel()

	queue := []*domain.VocabularyWord{testWord("abandon", 0)}
	_, err := NewSession(queue, domain.QuizMode("listening"), testDeps(nil, nil), testLogger())
	assert.ErrorIs(t, err, domain.ErrInvalidQuizMode)
}

func TestSpelling_CorrectFirstTry(t *testing.T) {
	t.Parallel()

	store := &mockProgressStore{}
	word := testWord("abandon", 3)
	s, err := NewSession([]*domain.VocabularyWord{word}, domain.ModeSpelling, testDeps(store, nil), testLogger())
	require.NoError(t, err)

	snap := s.Snapshot()
	assert.Equal(t, PhasePrompting, snap.Phase)
	assert.Equal(t, "verlassen", snap.Prompt)

	require.NoError(t, s.SubmitAnswer("abandon"))
	snap = s.Snapshot()
	assert.Equal(t, PhaseAwaitingNext, snap.Phase)
	assert.Equal(t, FeedbackCorrect, snap.Feedback)

	// The grade is pending: nothing persisted until advance.
	assert.Equal(t, 0, store.callCount())

	require.NoError(t, s.Advance())
	s.Wait()

	assert.Equal(t, PhaseComplete, s.Snapshot().Phase)
	require.Equal(t, 1, store.callCount())
	assert.Equal(t, word.ID, store.call(0).wordID)
	// Good leaves the score unchanged.
	assert.Equal(t, 3, word.ProficiencyScore)
	assert.Equal(t, uint64(1), word.Memory.Reps)
}

func TestSpelling_RetryForcesGradeToAgain(t *testing.T) {
	t.Parallel()

	store := &mockProgressStore{}
	word := testWord("abandon", 3)
	s, err := NewSession([]*domain.VocabularyWord{word}, domain.ModeSpelling, testDeps(store, nil), testLogger())
	require.NoError(t, err)

	// First attempt: wrong word. The card stays prompting for one retry
	// with the input cleared and the correct word as a hint.
	require.NoError(t, s.SubmitAnswer("xyz"))
	snap := s.Snapshot()
	assert.Equal(t, PhasePrompting, snap.Phase)
	assert.Equal(t, FeedbackIncorrect, snap.Feedback)
	assert.Equal(t, "abandon", snap.Hint)

	// Retry succeeds, but the committed grade is forced down to Again.
	require.NoError(t, s.SubmitAnswer("abandon"))
	assert.Equal(t, PhaseAwaitingNext, s.Snapshot().Phase)

	require.NoError(t, s.Advance())
	s.Wait()

	// Again from score 3 lands on 1.
	assert.Equal(t, 1, word.ProficiencyScore)
	assert.Equal(t, uint64(1), word.Memory.Reps)
	require.Equal(t, 1, store.callCount())
	assert.Equal(t, 1, store.call(0).fields["proficiency_score"])
}

func TestSpelling_TypoGradesHardWithoutRetry(t *testing.T) {
	t.Parallel()

	word := testWord("abandon", 3)
	s, err := NewSession([]*domain.VocabularyWord{word}, domain.ModeSpelling, testDeps(nil, nil), testLogger())
	require.NoError(t, err)

	require.NoError(t, s.SubmitAnswer("abandom"))
	snap := s.Snapshot()
	assert.Equal(t, PhaseAwaitingNext, snap.Phase)
	assert.Equal(t, FeedbackTypo, snap.Feedback)

	require.NoError(t, s.Advance())
	// Hard drops the score by one.
	assert.Equal(t, 2, word.ProficiencyScore)
}

func TestAdvance_CommitsPendingExactlyOnce(t *testing.T) {
	t.Parallel()

	store := &mockProgressStore{}
	queue := []*domain.VocabularyWord{testWord("abandon", 3), testWord("require", 2)}
	s, err := NewSession(queue, domain.ModeSpelling, testDeps(store, nil), testLogger())
	require.NoError(t, err)

	require.NoError(t, s.SubmitAnswer("abandon"))
	require.NoError(t, s.Advance())

	// A second advance through another input path finds no pending grade
	// and no awaiting state: rejected, not re-committed.
	assert.ErrorIs(t, s.Advance(), ErrInvalidAction)

	s.Wait()
	assert.Equal(t, 1, store.callCount())
	assert.Equal(t, PhasePrompting, s.Snapshot().Phase)
}

func TestFlashcard_RevealThenGradeCommitsImmediately(t *testing.T) {
	t.Parallel()

	store := &mockProgressStore{}
	audio := &mockAudioPlayer{}
	word := testWord("abandon", 3)
	s, err := NewSession([]*domain.VocabularyWord{word}, domain.ModeFlashcard, testDeps(store, audio), testLogger())
	require.NoError(t, err)

	// Grading before reveal is illegal.
	assert.ErrorIs(t, s.CommitGrade(domain.GradeEasy), ErrInvalidAction)

	require.NoError(t, s.Reveal())
	assert.Equal(t, 1, audio.playCount(), "reveal fires pronunciation playback")

	require.NoError(t, s.CommitGrade(domain.GradeEasy))
	s.Wait()

	assert.Equal(t, PhaseComplete, s.Snapshot().Phase)
	assert.Equal(t, 4, word.ProficiencyScore)
	assert.Equal(t, 1, store.callCount())
}

func TestFlashcard_SubmitAnswerRejected(t *testing.T) {
	t.Parallel()

	s, err := NewSession([]*domain.VocabularyWord{testWord("abandon", 3)}, domain.ModeFlashcard, testDeps(nil, nil), testLogger())
	require.NoError(t, err)

	assert.ErrorIs(t, s.SubmitAnswer("abandon"), ErrInvalidAction)
}

func TestCloze_PromptAndRootMatch(t *testing.T) {
	t.Parallel()

	word := testWord("abandon", 3)
	s, err := NewSession([]*domain.VocabularyWord{word}, domain.ModeCloze, testDeps(nil, nil), testLogger())
	require.NoError(t, err)

	snap := s.Snapshot()
	assert.Equal(t, "He "+BlankToken+" ship.", snap.Prompt)

	// The bare target is accepted but flagged as a root match, surfacing
	// the inflected in-context form.
	require.NoError(t, s.SubmitAnswer("abandon"))
	snap = s.Snapshot()
	assert.Equal(t, PhaseAwaitingNext, snap.Phase)
	assert.Equal(t, FeedbackRootMatch, snap.Feedback)
	assert.Equal(t, "abandoned", snap.InContextForm)
}

func TestCloze_InflectedFormIsCorrect(t *testing.T) {
	t.Parallel()

	word := testWord("abandon", 3)
	s, err := NewSession([]*domain.VocabularyWord{word}, domain.ModeCloze, testDeps(nil, nil), testLogger())
	require.NoError(t, err)

	require.NoError(t, s.SubmitAnswer("abandoned"))
	snap := s.Snapshot()
	assert.Equal(t, FeedbackCorrect, snap.Feedback)
	assert.Empty(t, snap.InContextForm)
}

func TestDictation_PlaysAudioAtPromptAndReveal(t *testing.T) {
	t.Parallel()

	audio := &mockAudioPlayer{}
	word := testWord("abandon", 3)
	s, err := NewSession([]*domain.VocabularyWord{word}, domain.ModeDictation, testDeps(nil, audio), testLogger())
	require.NoError(t, err)

	// Audio fires before the answer is typed.
	assert.Equal(t, 1, audio.playCount())

	require.NoError(t, s.SubmitAnswer("abandon"))
	assert.Equal(t, 2, audio.playCount(), "reveal fires playback again")
}

func TestHandleKey_Bindings(t *testing.T) {
	t.Parallel()

	t.Run("digits grade only a revealed flashcard", func(t *testing.T) {
		word := testWord("abandon", 3)
		s, err := NewSession([]*domain.VocabularyWord{word}, domain.ModeFlashcard, testDeps(nil, nil), testLogger())
		require.NoError(t, err)

		// Ignored while prompting.
		require.NoError(t, s.HandleKey("4"))
		assert.Equal(t, PhasePrompting, s.Snapshot().Phase)

		// Space reveals, then a digit commits and advances.
		require.NoError(t, s.HandleKey(" "))
		assert.Equal(t, PhaseRevealed, s.Snapshot().Phase)
		require.NoError(t, s.HandleKey("4"))
		assert.Equal(t, PhaseComplete, s.Snapshot().Phase)
		assert.Equal(t, 4, word.ProficiencyScore)
	})

	t.Run("enter advances when awaiting next", func(t *testing.T) {
		queue := []*domain.VocabularyWord{testWord("abandon", 3), testWord("require", 2)}
		s, err := NewSession(queue, domain.ModeSpelling, testDeps(nil, nil), testLogger())
		require.NoError(t, err)

		require.NoError(t, s.SubmitAnswer("abandon"))
		require.NoError(t, s.HandleKey("Enter"))
		snap := s.Snapshot()
		assert.Equal(t, PhasePrompting, snap.Phase)
		assert.Equal(t, 2, snap.Position)
	})

	t.Run("bare enter after a retry prompt is a no-op", func(t *testing.T) {
		s, err := NewSession([]*domain.VocabularyWord{testWord("abandon", 3)}, domain.ModeSpelling, testDeps(nil, nil), testLogger())
		require.NoError(t, err)

		require.NoError(t, s.SubmitAnswer("xyz"))
		// Input was cleared for the retry; Enter must not re-check it.
		require.NoError(t, s.HandleKey("Enter"))
		assert.Equal(t, PhasePrompting, s.Snapshot().Phase)
	})
}

func TestPersist_SchemaMismatchRetriesWithReducedFields(t *testing.T) {
	t.Parallel()

	store := &mockProgressStore{errs: []error{ErrSchemaMismatch}}
	word := testWord("abandon", 3)
	s, err := NewSession([]*domain.VocabularyWord{word}, domain.ModeSpelling, testDeps(store, nil), testLogger())
	require.NoError(t, err)

	require.NoError(t, s.SubmitAnswer("abandon"))
	require.NoError(t, s.Advance())
	s.Wait()

	require.Equal(t, 2, store.callCount())

	full := store.call(0).fields
	assert.Contains(t, full, "stability")
	assert.Contains(t, full, "last_review")

	reduced := store.call(1).fields
	assert.Len(t, reduced, 2)
	assert.Contains(t, reduced, "due")
	assert.Contains(t, reduced, "proficiency_score")
}

func TestPersist_SecondFailureNeverBlocksSession(t *testing.T) {
	t.Parallel()

	store := &mockProgressStore{errs: []error{ErrSchemaMismatch, ErrSchemaMismatch}}
	queue := []*domain.VocabularyWord{testWord("abandon", 3), testWord("require", 2)}
	s, err := NewSession(queue, domain.ModeSpelling, testDeps(store, nil), testLogger())
	require.NoError(t, err)

	require.NoError(t, s.SubmitAnswer("abandon"))
	require.NoError(t, s.Advance())
	s.Wait()

	// Session advanced regardless of the double failure.
	snap := s.Snapshot()
	assert.Equal(t, PhasePrompting, snap.Phase)
	assert.Equal(t, 2, snap.Position)
	assert.Equal(t, 2, store.callCount())
}

func TestSnapshot_HidesAnswerWhilePrompting(t *testing.T) {
	t.Parallel()

	s, err := NewSession([]*domain.VocabularyWord{testWord("abandon", 3)}, domain.ModeSpelling, testDeps(nil, nil), testLogger())
	require.NoError(t, err)

	snap := s.Snapshot()
	assert.Empty(t, snap.Word)
	assert.Empty(t, snap.ExpectedAnswer)

	require.NoError(t, s.SubmitAnswer("abandon"))
	snap = s.Snapshot()
	assert.Equal(t, "abandon", snap.Word)
}
