// Package store provides PostgreSQL-backed persistence for vocabulary
// words, including the partial review-field updates the session engine
// hands off after each grade commit.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lexvault/lexvault-api/internal/domain"
	"github.com/lexvault/lexvault-api/internal/platform/logger"
)

// WordStore defines the interface for vocabulary word persistence.
type WordStore interface {
	// GetByID retrieves a word by its unique ID.
	// Returns ErrWordNotFound if the word does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.VocabularyWord, error)

	// ListByFolders retrieves all words belonging to any of the given
	// folders. An empty folder selection returns the full pool.
	ListByFolders(ctx context.Context, folderIDs []uuid.UUID) ([]*domain.VocabularyWord, error)

	// Create saves a new word.
	Create(ctx context.Context, word *domain.VocabularyWord) error

	// UpdateReviewFields applies a partial update of review-owned columns.
	// Returns ErrUnknownField when a field has no matching column and
	// ErrWordNotFound when the word does not exist.
	UpdateReviewFields(ctx context.Context, id uuid.UUID, fields map[string]any) error
}

// reviewColumns whitelists the columns a partial review update may touch.
var reviewColumns = map[string]bool{
	"due":               true,
	"stability":         true,
	"difficulty":        true,
	"elapsed_days":      true,
	"scheduled_days":    true,
	"reps":              true,
	"lapses":            true,
	"state":             true,
	"last_review":       true,
	"proficiency_score": true,
}

// PostgresWordStore implements WordStore against PostgreSQL.
type PostgresWordStore struct {
	db     *sql.DB
	logger *slog.Logger
}

// Compile-time interface check.
var _ WordStore = (*PostgresWordStore)(nil)

// NewPostgresWordStore creates a word store over the given database handle.
func NewPostgresWordStore(db *sql.DB, log *slog.Logger) *PostgresWordStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}
	return &PostgresWordStore{
		db:     db,
		logger: log.With(slog.String("component", "word_store")),
	}
}

const wordColumns = `id, word, part_of_speech, definitions, folder_ids,
	due, stability, difficulty, elapsed_days, scheduled_days, reps, lapses,
	state, last_review, proficiency_score, audio_url, created_at, updated_at`

// GetByID implements WordStore.GetByID.
func (s *PostgresWordStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.VocabularyWord, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+wordColumns+` FROM words WHERE id = $1`, id)

	word, err := scanWord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrWordNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get word: %w", err)
	}
	return word, nil
}

// ListByFolders implements WordStore.ListByFolders.
func (s *PostgresWordStore) ListByFolders(
	ctx context.Context,
	folderIDs []uuid.UUID,
) ([]*domain.VocabularyWord, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query, args := listByFoldersQuery(folderIDs)
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list words: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var words []*domain.VocabularyWord
	for rows.Next() {
		word, err := scanWord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan word: %w", err)
		}
		words = append(words, word)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate words: %w", err)
	}

	log.Debug("listed words", slog.Int("count", len(words)), slog.Int("folders", len(folderIDs)))
	return words, nil
}

// listByFoldersQuery builds the pool query. Folder membership is stored
// as a JSONB array of folder IDs; each selected folder becomes a
// containment condition.
func listByFoldersQuery(folderIDs []uuid.UUID) (string, []any) {
	query := `SELECT ` + wordColumns + ` FROM words`
	if len(folderIDs) == 0 {
		return query, nil
	}

	conds := make([]string, len(folderIDs))
	args := make([]any, len(folderIDs))
	for i, id := range folderIDs {
		conds[i] = fmt.Sprintf("folder_ids @> $%d::jsonb", i+1)
		args[i] = fmt.Sprintf(`["%s"]`, id)
	}
	return query + " WHERE " + strings.Join(conds, " OR "), args
}

// Create implements WordStore.Create.
func (s *PostgresWordStore) Create(ctx context.Context, word *domain.VocabularyWord) error {
	if err := word.Validate(); err != nil {
		return err
	}

	definitions, err := json.Marshal(word.Definitions)
	if err != nil {
		return fmt.Errorf("failed to marshal definitions: %w", err)
	}
	folders, err := json.Marshal(word.FolderIDs)
	if err != nil {
		return fmt.Errorf("failed to marshal folder IDs: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO words (`+wordColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)`,
		word.ID, word.Word, word.PartOfSpeech, definitions, folders,
		word.Memory.Due, word.Memory.Stability, word.Memory.Difficulty,
		word.Memory.ElapsedDays, word.Memory.ScheduledDays, word.Memory.Reps,
		word.Memory.Lapses, word.Memory.State, nullableTime(word.Memory.LastReview),
		word.ProficiencyScore, word.AudioURL, word.CreatedAt, word.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create word: %w", classifyPgError(err))
	}
	return nil
}

// UpdateReviewFields implements WordStore.UpdateReviewFields. The SET
// clause is built from the whitelisted columns in deterministic order;
// fields outside the whitelist classify as ErrUnknownField without
// touching the database, matching how an older schema would reject them.
func (s *PostgresWordStore) UpdateReviewFields(
	ctx context.Context,
	id uuid.UUID,
	fields map[string]any,
) error {
	if len(fields) == 0 {
		return ErrNoFields
	}

	query, args, err := updateReviewQuery(id, fields)
	if err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update review fields: %w", classifyPgError(err))
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read update result: %w", err)
	}
	if affected == 0 {
		return ErrWordNotFound
	}
	return nil
}

// updateReviewQuery builds the partial UPDATE statement.
func updateReviewQuery(id uuid.UUID, fields map[string]any) (string, []any, error) {
	keys := make([]string, 0, len(fields))
	for key := range fields {
		if !reviewColumns[key] {
			return "", nil, fmt.Errorf("%w: %s", ErrUnknownField, key)
		}
		keys = append(keys, key)
	}
	sort.Strings(keys)

	sets := make([]string, len(keys))
	args := make([]any, 0, len(keys)+1)
	for i, key := range keys {
		sets[i] = fmt.Sprintf("%s = $%d", key, i+1)
		args = append(args, fields[key])
	}
	args = append(args, id)

	query := fmt.Sprintf(
		"UPDATE words SET %s, updated_at = now() WHERE id = $%d",
		strings.Join(sets, ", "), len(keys)+1,
	)
	return query, args, nil
}

// rowScanner covers both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanWord reads one word row. Missing timestamps fall back to now so
// invalid dates never reach the scheduling math.
func scanWord(row rowScanner) (*domain.VocabularyWord, error) {
	var (
		word        domain.VocabularyWord
		definitions []byte
		folders     []byte
		due         sql.NullTime
		lastReview  sql.NullTime
	)

	err := row.Scan(
		&word.ID, &word.Word, &word.PartOfSpeech, &definitions, &folders,
		&due, &word.Memory.Stability, &word.Memory.Difficulty,
		&word.Memory.ElapsedDays, &word.Memory.ScheduledDays, &word.Memory.Reps,
		&word.Memory.Lapses, &word.Memory.State, &lastReview,
		&word.ProficiencyScore, &word.AudioURL, &word.CreatedAt, &word.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	if due.Valid {
		word.Memory.Due = due.Time
	} else {
		word.Memory.Due = now
	}
	if lastReview.Valid {
		word.Memory.LastReview = lastReview.Time
	}

	if len(definitions) > 0 {
		if err := json.Unmarshal(definitions, &word.Definitions); err != nil {
			return nil, fmt.Errorf("failed to unmarshal definitions: %w", err)
		}
	}
	if len(folders) > 0 {
		if err := json.Unmarshal(folders, &word.FolderIDs); err != nil {
			return nil, fmt.Errorf("failed to unmarshal folder IDs: %w", err)
		}
	}

	return &word, nil
}

// nullableTime maps a zero time to NULL.
func nullableTime(t time.Time) sql.NullTime {
	return sql.NullTime{Time: t, Valid: !t.IsZero()}
}
