package review

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/lexvault/lexvault-api/internal/domain"
)

// Manager errors.
var (
	// ErrEmptyPool indicates the selected folders hold no words; no
	// session is created and the caller returns to setup.
	ErrEmptyPool = errors.New("no words eligible for review")

	// ErrSessionNotFound indicates an unknown or already-abandoned
	// session ID.
	ErrSessionNotFound = errors.New("session not found")
)

// WordSource supplies the word pool a session draws from.
type WordSource interface {
	ListByFolders(ctx context.Context, folderIDs []uuid.UUID) ([]*domain.VocabularyWord, error)
}

// Manager owns the live review sessions. Each session is strictly
// sequential internally; the manager only guards the registry.
type Manager struct {
	words     WordSource
	deps      Deps
	batchSize int
	logger    *slog.Logger

	mu       sync.Mutex
	sessions map[uuid.UUID]*Session
}

// NewManager creates a session manager. A batchSize of zero or less uses
// DefaultBatchSize.
func NewManager(words WordSource, deps Deps, batchSize int, logger *slog.Logger) *Manager {
	if words == nil {
		panic("words cannot be nil")
	}
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Manager{
		words:     words,
		deps:      deps,
		batchSize: batchSize,
		logger:    logger.With(slog.String("component", "review_manager")),
		sessions:  make(map[uuid.UUID]*Session),
	}
}

// Start builds a review queue from the selected folders and opens a new
// session over it. Returns ErrEmptyPool when the folders hold no words.
func (m *Manager) Start(
	ctx context.Context,
	folderIDs []uuid.UUID,
	mode domain.QuizMode,
) (*Session, error) {
	pool, err := m.words.ListByFolders(ctx, folderIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load word pool: %w", err)
	}
	if len(pool) == 0 {
		return nil, ErrEmptyPool
	}

	now := time.Now().UTC()
	if m.deps.Now != nil {
		now = m.deps.Now()
	}
	queue := SelectBatch(pool, m.batchSize, now, nil)

	session, err := NewSession(queue, mode, m.deps, m.logger)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	m.sessions[session.ID] = session
	m.mu.Unlock()

	m.logger.Debug("session started",
		slog.String("session_id", session.ID.String()),
		slog.String("mode", string(mode)),
		slog.Int("queue_size", len(queue)))

	return session, nil
}

// Get returns a live session by ID.
func (m *Manager) Get(id uuid.UUID) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	session, ok := m.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return session, nil
}

// Abandon discards a session's state. There is nothing to clean up
// beyond dropping it from the registry; in-flight persistence writes
// complete on their own.
func (m *Manager) Abandon(id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.sessions[id]; !ok {
		return ErrSessionNotFound
	}
	delete(m.sessions, id)
	return nil
}
