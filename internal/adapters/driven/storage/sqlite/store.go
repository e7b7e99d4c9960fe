package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/tzij-labs/tzij-cli/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/tzij-labs/tzij-cli/internal/core/domain"
	"github.com/tzij-labs/tzij-cli/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.DictionaryStore = (*Store)(nil)

// Store is the SQLite-backed dictionary store.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore opens (or creates) the dictionary database under dataDir.
// If dataDir is empty, defaults to ~/.tzij/data/dictionary.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".tzij", "data")
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "dictionary.db")

	// WAL mode for concurrent readers during enrichment imports
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db, path: dbPath}
	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// Put stores an entry. The UPSERT condition enforces the collision
// policy in SQL: a colliding row is replaced only by a strictly higher
// confidence, so ties keep the existing entry.
func (s *Store) Put(ctx context.Context, entry domain.DictionaryEntry) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO dictionary_entries
			(source_lang, target_lang, normalized_text, translation, confidence)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(source_lang, target_lang, normalized_text) DO UPDATE SET
			translation = excluded.translation,
			confidence = excluded.confidence,
			updated_at = CURRENT_TIMESTAMP
		WHERE excluded.confidence > dictionary_entries.confidence
	`, entry.SourceLang, entry.TargetLang, entry.NormalizedText,
		entry.Translation, entry.Confidence)

	if err != nil {
		return fmt.Errorf("saving dictionary entry: %w", err)
	}
	return nil
}

// Get retrieves the entry for an exact key.
func (s *Store) Get(ctx context.Context, sourceLang, targetLang, normalizedText string) (*domain.DictionaryEntry, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT source_lang, target_lang, normalized_text, translation, confidence
		FROM dictionary_entries
		WHERE source_lang = ? AND target_lang = ? AND normalized_text = ?
	`, sourceLang, targetLang, normalizedText)

	var entry domain.DictionaryEntry
	if err := row.Scan(&entry.SourceLang, &entry.TargetLang,
		&entry.NormalizedText, &entry.Translation, &entry.Confidence); err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning dictionary entry: %w", err)
	}
	return &entry, nil
}

// FindSimilar returns up to limit same-pair entries ranked by token
// overlap with text. Ranking happens in Go; the pair's entry count is
// small enough that pulling the rows beats expressing overlap in SQL.
func (s *Store) FindSimilar(ctx context.Context, sourceLang, targetLang, text string, limit int) ([]domain.DictionaryEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT source_lang, target_lang, normalized_text, translation, confidence
		FROM dictionary_entries
		WHERE source_lang = ? AND target_lang = ?
		ORDER BY normalized_text
	`, sourceLang, targetLang)
	if err != nil {
		return nil, fmt.Errorf("querying dictionary entries: %w", err)
	}
	defer rows.Close()

	var entries []domain.DictionaryEntry //nolint:prealloc // size unknown from query
	for rows.Next() {
		var entry domain.DictionaryEntry
		if err := rows.Scan(&entry.SourceLang, &entry.TargetLang,
			&entry.NormalizedText, &entry.Translation, &entry.Confidence); err != nil {
			return nil, fmt.Errorf("scanning dictionary entry: %w", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating dictionary entries: %w", err)
	}

	tokens := strings.Fields(text)
	sort.SliceStable(entries, func(i, j int) bool {
		return tokenOverlap(entries[i].NormalizedText, tokens) >
			tokenOverlap(entries[j].NormalizedText, tokens)
	})

	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

// Keys returns all normalized keys stored for the pair.
func (s *Store) Keys(ctx context.Context, sourceLang, targetLang string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT normalized_text
		FROM dictionary_entries
		WHERE source_lang = ? AND target_lang = ?
		ORDER BY normalized_text
	`, sourceLang, targetLang)
	if err != nil {
		return nil, fmt.Errorf("querying dictionary keys: %w", err)
	}
	defer rows.Close()

	var keys []string //nolint:prealloc // size unknown from query
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, fmt.Errorf("scanning dictionary key: %w", err)
		}
		keys = append(keys, key)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating dictionary keys: %w", err)
	}
	return keys, nil
}

// Count returns the total number of stored entries.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM dictionary_entries").Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("counting dictionary entries: %w", err)
	}
	return n, nil
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		if strings.HasSuffix(entry.Name(), ".up.sql") {
			upFiles = append(upFiles, entry.Name())
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}
		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
		if _, err := s.db.Exec(
			"INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}
	return nil
}

// tokenOverlap counts how many input tokens appear in the key.
func tokenOverlap(key string, tokens []string) int {
	n := 0
	for _, tok := range tokens {
		if strings.Contains(key, tok) {
			n++
		}
	}
	return n
}
