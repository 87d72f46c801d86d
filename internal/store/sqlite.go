package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/ppiankov/campusfaq/internal/model"
)

const schema = `
CREATE TABLE IF NOT EXISTS facts (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	question    TEXT NOT NULL,
	answer      TEXT NOT NULL,
	category    TEXT NOT NULL DEFAULT 'general',
	language    TEXT NOT NULL DEFAULT 'en',
	source_file TEXT NOT NULL DEFAULT '',
	page_number INTEGER,
	run_id      TEXT NOT NULL DEFAULT '',
	created_at  TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_facts_category ON facts(category);
CREATE INDEX IF NOT EXISTS idx_facts_source ON facts(source_file);

CREATE TABLE IF NOT EXISTS chunks (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	content     TEXT NOT NULL,
	source_file TEXT NOT NULL DEFAULT '',
	page_number INTEGER NOT NULL DEFAULT 0,
	chunk_index INTEGER NOT NULL DEFAULT 0,
	run_id      TEXT NOT NULL DEFAULT '',
	created_at  TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_chunks_source ON chunks(source_file, page_number, chunk_index);
`

// SQLiteStore implements Store on a single SQLite file.
type SQLiteStore struct {
	db     *sql.DB
	dbPath string
}

// NewSQLiteStore opens (and migrates) the database at path.
// Pass ":memory:" for an in-memory database.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: empty database path", model.ErrStoreUnavailable)
	}
	path = expandPath(path)

	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("creating db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("%w: opening database: %v", model.ErrStoreUnavailable, err)
	}
	// One connection keeps ":memory:" databases shared and serializes writers
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: pinging database: %v", model.ErrStoreUnavailable, err)
	}

	pragmas := []string{
		"PRAGMA busy_timeout=5000",
	}
	if path != ":memory:" {
		pragmas = append(pragmas, "PRAGMA journal_mode=WAL")
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("setting pragma %q: %w", p, err)
		}
	}

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return &SQLiteStore{db: db, dbPath: path}, nil
}

// Path returns the database file path.
func (s *SQLiteStore) Path() string {
	return s.dbPath
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// SaveDocument inserts facts and chunks in one transaction.
func (s *SQLiteStore) SaveDocument(ctx context.Context, facts []model.Fact, chunks []model.Chunk) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	now := time.Now().UTC().Format(time.RFC3339)

	factStmt, err := tx.PrepareContext(ctx, `INSERT INTO facts
		(question, answer, category, language, source_file, page_number, run_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare fact insert: %w", err)
	}
	defer func() { _ = factStmt.Close() }()

	ids := make([]int64, len(facts))
	for i, f := range facts {
		var page sql.NullInt64
		if f.PageNumber != nil {
			page = sql.NullInt64{Int64: int64(*f.PageNumber), Valid: true}
		}
		res, err := factStmt.ExecContext(ctx, f.Question, f.Answer, string(f.Category), f.Language,
			f.SourceFile, page, f.RunID, now)
		if err != nil {
			return fmt.Errorf("insert fact %d: %w", i, err)
		}
		if ids[i], err = res.LastInsertId(); err != nil {
			return fmt.Errorf("fact id: %w", err)
		}
	}

	chunkStmt, err := tx.PrepareContext(ctx, `INSERT INTO chunks
		(content, source_file, page_number, chunk_index, run_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare chunk insert: %w", err)
	}
	defer func() { _ = chunkStmt.Close() }()

	for i, c := range chunks {
		if _, err := chunkStmt.ExecContext(ctx, c.Content, c.SourceFile, c.PageNumber, c.ChunkIndex, c.RunID, now); err != nil {
			return fmt.Errorf("insert chunk %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	for i := range facts {
		facts[i].ID = ids[i]
	}
	return nil
}

// FindMatching builds one (question LIKE OR answer LIKE) condition per term.
func (s *SQLiteStore) FindMatching(ctx context.Context, q MatchQuery) ([]model.Fact, error) {
	terms := normalizeTerms(q.Terms)
	if len(terms) == 0 {
		return nil, nil
	}
	priority := strings.ToLower(strings.TrimSpace(q.PriorityTerm))
	if priority == "" {
		priority = terms[0]
	}

	conditions := make([]string, 0, len(terms))
	args := make([]any, 0, 2*len(terms)+3)
	for _, t := range terms {
		conditions = append(conditions, `(LOWER(question) LIKE ? ESCAPE '\' OR LOWER(answer) LIKE ? ESCAPE '\')`)
		pattern := likePattern(t)
		args = append(args, pattern, pattern)
	}
	args = append(args, likePattern(priority), likePattern(priority), effectiveLimit(q.Limit))

	query := `SELECT id, question, answer, category, language, source_file, page_number, run_id
		FROM facts
		WHERE ` + strings.Join(conditions, " OR ") + `
		ORDER BY
			CASE
				WHEN LOWER(question) LIKE ? ESCAPE '\' THEN 1
				WHEN LOWER(answer) LIKE ? ESCAPE '\' THEN 2
				ELSE 3
			END,
			LENGTH(answer),
			id
		LIMIT ?`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("find matching facts: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var facts []model.Fact
	for rows.Next() {
		var (
			f        model.Fact
			category string
			page     sql.NullInt64
		)
		if err := rows.Scan(&f.ID, &f.Question, &f.Answer, &category, &f.Language, &f.SourceFile, &page, &f.RunID); err != nil {
			return nil, fmt.Errorf("scan fact: %w", err)
		}
		f.Category = model.Category(category)
		if page.Valid {
			n := int(page.Int64)
			f.PageNumber = &n
		}
		facts = append(facts, f)
	}
	return facts, rows.Err()
}

// Stats counts facts by category and language.
func (s *SQLiteStore) Stats(ctx context.Context) (*model.Stats, error) {
	stats := &model.Stats{
		Categories: make(map[model.Category]int),
		Languages:  make(map[string]int),
	}

	counts := []struct {
		query string
		dest  *int
	}{
		{"SELECT COUNT(*) FROM facts", &stats.TotalFacts},
		{"SELECT COUNT(*) FROM chunks", &stats.TotalChunks},
		{"SELECT COUNT(DISTINCT source_file) FROM facts WHERE source_file != ''", &stats.Sources},
	}
	for _, c := range counts {
		if err := s.db.QueryRowContext(ctx, c.query).Scan(c.dest); err != nil {
			return nil, fmt.Errorf("stats: %w", err)
		}
	}

	if err := s.groupCount(ctx, "category", func(k string, n int) { stats.Categories[model.Category(k)] = n }); err != nil {
		return nil, err
	}
	if err := s.groupCount(ctx, "language", func(k string, n int) { stats.Languages[k] = n }); err != nil {
		return nil, err
	}
	return stats, nil
}

func (s *SQLiteStore) groupCount(ctx context.Context, column string, set func(string, int)) error {
	rows, err := s.db.QueryContext(ctx, "SELECT "+column+", COUNT(*) FROM facts GROUP BY "+column)
	if err != nil {
		return fmt.Errorf("count by %s: %w", column, err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var (
			key string
			n   int
		)
		if err := rows.Scan(&key, &n); err != nil {
			return fmt.Errorf("scan %s count: %w", column, err)
		}
		set(key, n)
	}
	return rows.Err()
}

// Clear deletes every fact and chunk.
func (s *SQLiteStore) Clear(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, table := range []string{"facts", "chunks"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}
	return tx.Commit()
}

// likePattern wraps a term in % wildcards, escaping LIKE metacharacters
func likePattern(term string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(term) + "%"
}
