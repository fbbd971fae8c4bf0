package review

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/lexvault/lexvault-api/internal/domain"
	"github.com/lexvault/lexvault-api/internal/review/morph"
	"github.com/lexvault/lexvault-api/internal/srs"
)

// Phase is the session state machine's current state. Modeling the
// scattered flipped/awaiting/pending flags as one enum keeps illegal
// combinations unrepresentable.
type Phase string

// Session phases.
const (
	PhasePrompting    Phase = "prompting"
	PhaseRevealed     Phase = "revealed"
	PhaseAwaitingNext Phase = "awaiting_next"
	PhaseComplete     Phase = "complete"
)

// Session errors.
var (
	// ErrEmptyQueue is returned when a session is started with no words.
	ErrEmptyQueue = errors.New("review queue is empty")

	// ErrInvalidAction is returned when an action is not legal in the
	// session's current phase or mode.
	ErrInvalidAction = errors.New("action not allowed in current session state")

	// ErrSchemaMismatch classifies a persistence rejection caused by an
	// unknown or missing field; it triggers the one-shot reduced-field
	// retry.
	ErrSchemaMismatch = errors.New("persistence rejected an unknown field")
)

// ProgressStore is the persistence collaborator. It accepts partial
// field updates after each grade commit; failures never block or roll
// back the in-memory session.
type ProgressStore interface {
	UpdateReviewFields(ctx context.Context, wordID uuid.UUID, fields map[string]any) error
}

// AudioPlayer is the pronunciation-playback collaborator.
// Implementations must not block; playback is fire-and-forget.
type AudioPlayer interface {
	Play(ctx context.Context, word, preferredAudioURL string)
}

// Deps bundles the session's collaborators. Store and Audio may be nil
// (persistence and playback are then skipped); the rest are required.
type Deps struct {
	Scheduler   *srs.Scheduler
	Proficiency *srs.ProficiencyParams
	Analyzer    morph.Analyzer
	Store       ProgressStore
	Audio       AudioPlayer
	Now         func() time.Time
}

// Session drives the per-card review interaction for one queue: prompt,
// reveal/check, retry, grade commit, advance. State is ephemeral and
// discarded when the session completes or is abandoned. Methods are
// safe for concurrent use, but transitions are strictly sequential: one
// active card at a time.
type Session struct {
	ID   uuid.UUID
	mode domain.QuizMode

	mu        sync.Mutex
	queue     []*domain.VocabularyWord
	idx       int
	phase     Phase
	typed     string
	feedback  Feedback
	hint      string
	inContext string

	// hasMistake records a failed first attempt on the current card; the
	// final committed grade is then forced down to Again.
	hasMistake bool

	// pending holds the computed grade of a strict-mode answer until
	// advance, so multiple input paths can never double-commit it.
	pending *domain.Grade

	cloze *Resolution

	deps      Deps
	logger    *slog.Logger
	persistWG sync.WaitGroup
}

// NewSession creates a session over an already-selected queue.
func NewSession(
	queue []*domain.VocabularyWord,
	mode domain.QuizMode,
	deps Deps,
	logger *slog.Logger,
) (*Session, error) {
	if len(queue) == 0 {
		return nil, ErrEmptyQueue
	}
	if err := mode.Validate(); err != nil {
		return nil, err
	}
	if deps.Scheduler == nil {
		panic("deps.Scheduler cannot be nil")
	}
	if mode == domain.ModeCloze && deps.Analyzer == nil {
		panic("deps.Analyzer cannot be nil for cloze mode")
	}
	if deps.Now == nil {
		deps.Now = func() time.Time { return time.Now().UTC() }
	}
	if logger == nil {
		logger = slog.Default()
	}

	s := &Session{
		ID:     uuid.New(),
		mode:   mode,
		queue:  queue,
		phase:  PhasePrompting,
		deps:   deps,
		logger: logger.With(slog.String("component", "review_session")),
	}

	s.enterCard()
	return s, nil
}

// Mode returns the session's quiz mode.
func (s *Session) Mode() domain.QuizMode { return s.mode }

// Reveal flips the current flashcard, exposing the answer for
// self-grading. Only valid for flashcard mode while prompting.
func (s *Session) Reveal() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase != PhasePrompting || s.mode != domain.ModeFlashcard {
		return ErrInvalidAction
	}

	s.phase = PhaseRevealed
	s.playAudio()
	return nil
}

// SubmitAnswer checks a typed answer in a strict mode. A first incorrect
// answer keeps the card prompting for one retry with the input cleared
// and the correct word offered as a hint; its resolution commits no
// better than Again. Correct or final answers move the card to
// AwaitingNext with the grade held pending.
func (s *Session) SubmitAnswer(text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase != PhasePrompting || !s.mode.Strict() {
		return ErrInvalidAction
	}

	s.typed = text
	eval := s.evaluate(text)

	if eval.AllowRetry && !s.hasMistake {
		s.hasMistake = true
		s.feedback = FeedbackIncorrect
		s.typed = ""
		s.hint = s.currentWord().Word
		s.logger.Debug("incorrect answer, offering retry",
			slog.String("session_id", s.ID.String()),
			slog.String("word_id", s.currentWord().ID.String()))
		return nil
	}

	grade := eval.Grade
	if s.hasMistake {
		// A card is only ever better than Again if answered correctly on
		// the first attempt.
		grade = domain.GradeAgain
	}

	s.feedback = eval.Feedback
	s.pending = &grade
	s.phase = PhaseAwaitingNext
	s.playAudio()
	return nil
}

// CommitGrade applies a self-assessed flashcard grade. Unlike strict
// modes there is no pending indirection: the explicit tap commits and
// advances in the same action.
func (s *Session) CommitGrade(grade domain.Grade) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase != PhaseRevealed || s.mode != domain.ModeFlashcard {
		return ErrInvalidAction
	}
	if err := grade.Validate(); err != nil {
		return err
	}

	s.commit(grade)
	s.advanceLocked()
	return nil
}

// Advance commits the pending grade and moves to the next card. The
// pending slot is consumed exactly once, so a second advance triggered
// through another input path is rejected instead of re-committing.
func (s *Session) Advance() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase != PhaseAwaitingNext {
		return ErrInvalidAction
	}

	if s.pending != nil {
		s.commit(*s.pending)
		s.pending = nil
	}
	s.advanceLocked()
	return nil
}

// HandleKey maps a session-scoped keyboard event onto the action legal in
// the current phase: digits 1-4 grade a revealed flashcard, Enter/Space
// reveal or check while prompting, Enter advances while awaiting next.
// Keys with no binding in the current state are ignored.
func (s *Session) HandleKey(key string) error {
	s.mu.Lock()
	phase, mode, typed := s.phase, s.mode, s.typed
	s.mu.Unlock()

	switch {
	case phase == PhaseRevealed && mode == domain.ModeFlashcard:
		if grade, ok := gradeForKey(key); ok {
			return s.CommitGrade(grade)
		}

	case phase == PhasePrompting && isConfirmKey(key):
		if mode == domain.ModeFlashcard {
			return s.Reveal()
		}
		// Strict modes: re-check the current input. After a retry prompt
		// the input was cleared, so a bare Enter does nothing.
		if typed != "" {
			return s.SubmitAnswer(typed)
		}

	case phase == PhaseAwaitingNext && isEnterKey(key):
		return s.Advance()
	}

	return nil
}

// Snapshot is an immutable view of the session for the transport layer.
type Snapshot struct {
	SessionID      uuid.UUID       `json:"session_id"`
	Mode           domain.QuizMode `json:"mode"`
	Phase          Phase           `json:"phase"`
	Position       int             `json:"position"`
	Total          int             `json:"total"`
	Prompt         string          `json:"prompt,omitempty"`
	Hint           string          `json:"hint,omitempty"`
	Feedback       Feedback        `json:"feedback,omitempty"`
	InContextForm  string          `json:"in_context_form,omitempty"`
	Word           string          `json:"word,omitempty"`
	ExpectedAnswer string          `json:"expected_answer,omitempty"`
}

// Snapshot returns the current presentation state. The word and expected
// answer are only exposed once the card is past prompting.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		SessionID: s.ID,
		Mode:      s.mode,
		Phase:     s.phase,
		Position:  min(s.idx+1, len(s.queue)),
		Total:     len(s.queue),
		Hint:      s.hint,
		Feedback:  s.feedback,
	}

	if s.phase == PhaseComplete {
		return snap
	}

	snap.Prompt = s.prompt()
	if s.phase != PhasePrompting {
		word := s.currentWord()
		snap.Word = word.Word
		snap.ExpectedAnswer = word.Word
		snap.InContextForm = s.inContext
	}
	return snap
}

// Wait blocks until all in-flight persistence writes have settled.
// Intended for graceful shutdown and tests; the session itself never
// waits on persistence.
func (s *Session) Wait() {
	s.persistWG.Wait()
}

// evaluate grades the typed text for the current card and mode.
func (s *Session) evaluate(text string) Evaluation {
	word := s.currentWord()

	if s.mode == domain.ModeCloze {
		res := s.clozeResolution()
		if res.Accepts(text) {
			feedback, inContext := res.Classify(text)
			s.inContext = inContext
			return Evaluation{Grade: domain.GradeGood, Feedback: feedback}
		}
		// Not an accepted form: fall back to edit-distance grading
		// against the bare target for typo detection.
		return EvaluateAnswer(text, word.Word)
	}

	return EvaluateAnswer(text, word.Word)
}

// commit applies a grade to the current card: scheduling, proficiency,
// and an asynchronous persistence hand-off.
func (s *Session) commit(grade domain.Grade) {
	word := s.currentWord()
	now := s.deps.Now()

	memory, err := s.deps.Scheduler.Schedule(word.Memory, grade, now)
	if err != nil {
		s.logger.Error("failed to schedule review",
			slog.String("error", err.Error()),
			slog.String("word_id", word.ID.String()))
		return
	}

	word.Memory = memory
	word.ProficiencyScore = srs.NextProficiency(word.ProficiencyScore, grade, s.deps.Proficiency)

	s.logger.Debug("grade committed",
		slog.String("session_id", s.ID.String()),
		slog.String("word_id", word.ID.String()),
		slog.Int("grade", int(grade)),
		slog.Int("proficiency", word.ProficiencyScore),
		slog.Time("due", memory.Due))

	if s.deps.Store == nil {
		return
	}

	fields := reviewFields(memory, word.ProficiencyScore)
	reduced := map[string]any{
		"due":               memory.Due,
		"proficiency_score": word.ProficiencyScore,
	}

	s.persistWG.Add(1)
	go s.persist(word.ID, fields, reduced)
}

// persist sends the updated fields to the persistence collaborator.
// A schema-mismatch rejection is retried once with only the universally
// present fields; any remaining failure is logged and dropped, never
// rolling back session state.
func (s *Session) persist(wordID uuid.UUID, fields, reduced map[string]any) {
	defer s.persistWG.Done()
	ctx := context.Background()

	err := s.deps.Store.UpdateReviewFields(ctx, wordID, fields)
	if err == nil {
		return
	}

	if errors.Is(err, ErrSchemaMismatch) {
		s.logger.Warn("progress update rejected, retrying with reduced field set",
			slog.String("word_id", wordID.String()),
			slog.String("error", err.Error()))
		if retryErr := s.deps.Store.UpdateReviewFields(ctx, wordID, reduced); retryErr != nil {
			s.logger.Warn("progress update failed after reduced-field retry",
				slog.String("word_id", wordID.String()),
				slog.String("error", retryErr.Error()))
		}
		return
	}

	s.logger.Warn("progress update failed",
		slog.String("word_id", wordID.String()),
		slog.String("error", err.Error()))
}

// advanceLocked resets per-card state and moves to the next card or
// completes the session. Caller holds the lock.
func (s *Session) advanceLocked() {
	s.idx++
	s.typed = ""
	s.feedback = ""
	s.hint = ""
	s.inContext = ""
	s.hasMistake = false
	s.pending = nil
	s.cloze = nil

	if s.idx >= len(s.queue) {
		s.phase = PhaseComplete
		s.logger.Debug("session complete",
			slog.String("session_id", s.ID.String()),
			slog.Int("cards", len(s.queue)))
		return
	}

	s.phase = PhasePrompting
	s.enterCard()
}

// enterCard runs per-card entry side effects. Dictation plays the word
// before the answer is typed; other modes stay silent until reveal.
func (s *Session) enterCard() {
	if s.mode == domain.ModeDictation {
		s.playAudio()
	}
}

func (s *Session) playAudio() {
	if s.deps.Audio == nil {
		return
	}
	word := s.currentWord()
	s.deps.Audio.Play(context.Background(), word.Word, word.AudioURL)
}

func (s *Session) currentWord() *domain.VocabularyWord {
	return s.queue[s.idx]
}

// clozeResolution lazily resolves and caches the current card's cloze.
func (s *Session) clozeResolution() *Resolution {
	if s.cloze == nil {
		word := s.currentWord()
		res := ResolveCloze(s.deps.Analyzer, word.PrimaryExample(), word.Word)
		s.cloze = &res
	}
	return s.cloze
}

// prompt builds the question side of the current card for the mode.
func (s *Session) prompt() string {
	word := s.currentWord()
	switch s.mode {
	case domain.ModeSpelling:
		return word.PrimaryTranslation()
	case domain.ModeCloze:
		return s.clozeResolution().MaskedSentence
	case domain.ModeDictation:
		// Audio only; nothing textual to show.
		return ""
	default:
		return word.Word
	}
}

// reviewFields is the full field set sent to persistence after a commit.
func reviewFields(m domain.MemoryState, proficiency int) map[string]any {
	return map[string]any{
		"due":               m.Due,
		"stability":         m.Stability,
		"difficulty":        m.Difficulty,
		"elapsed_days":      m.ElapsedDays,
		"scheduled_days":    m.ScheduledDays,
		"reps":              m.Reps,
		"lapses":            m.Lapses,
		"state":             m.State,
		"last_review":       m.LastReview,
		"proficiency_score": proficiency,
	}
}

func gradeForKey(key string) (domain.Grade, bool) {
	switch key {
	case "1":
		return domain.GradeAgain, true
	case "2":
		return domain.GradeHard, true
	case "3":
		return domain.GradeGood, true
	case "4":
		return domain.GradeEasy, true
	default:
		return 0, false
	}
}

func isEnterKey(key string) bool {
	return key == "Enter" || key == "enter"
}

func isConfirmKey(key string) bool {
	return isEnterKey(key) || key == " " || key == "Space" || key == "space"
}
