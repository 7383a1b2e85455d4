package store

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

const (
	driverName  = "sqlite"
	maxAttempts = 5
)

// Document is one parsed source document tracked for incremental builds.
type Document struct {
	Name        string
	Fingerprint string
	Session     string
	ParsedAt    time.Time
}

// Symbol is one indexed object persisted for warm starts.
type Symbol struct {
	Name string
	Kind string
	Doc  string
}

type Store struct {
	path string
	db   *sql.DB
	mu   sync.Mutex
}

func Open(path string) (*Store, error) {
	cleanPath := strings.TrimSpace(path)
	if cleanPath == "" {
		return nil, fmt.Errorf("store path must not be empty")
	}
	if info, err := os.Stat(cleanPath); err == nil && info.IsDir() {
		return nil, fmt.Errorf("store path %q is a directory, expected file", cleanPath)
	}

	dir := filepath.Dir(cleanPath)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create store directory %q: %w", dir, err)
		}
	}

	// busy_timeout + WAL reduce lock conflicts during watch-mode churn.
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(2000)&_pragma=journal_mode(WAL)&_pragma=foreign_keys(ON)", cleanPath)
	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite store %q: %w", cleanPath, err)
	}
	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(0)
	db.SetConnMaxIdleTime(0)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite store %q: %w", cleanPath, err)
	}
	if err := EnsureSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize sqlite schema %q: %w", cleanPath, err)
	}

	return &Store{path: cleanPath, db: db}, nil
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// SaveDocument upserts the document row and replaces its symbols in a
// single transaction.
func (s *Store) SaveDocument(doc Document, symbols []Symbol) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if strings.TrimSpace(doc.Name) == "" {
		return fmt.Errorf("document name must not be empty")
	}
	if doc.ParsedAt.IsZero() {
		doc.ParsedAt = time.Now().UTC()
	}

	return s.withRetry("save document", func() error {
		tx, err := s.db.Begin()
		if err != nil {
			return err
		}

		if _, err := tx.Exec(`
INSERT INTO documents (docname, fingerprint, session, parsed_at_utc)
VALUES (?, ?, ?, ?)
ON CONFLICT(docname) DO UPDATE SET
  fingerprint=excluded.fingerprint,
  session=excluded.session,
  parsed_at_utc=excluded.parsed_at_utc
`, doc.Name, doc.Fingerprint, doc.Session, doc.ParsedAt.UTC().Format(time.RFC3339Nano)); err != nil {
			_ = tx.Rollback()
			return err
		}

		if _, err := tx.Exec(`DELETE FROM symbols WHERE docname = ?`, doc.Name); err != nil {
			_ = tx.Rollback()
			return err
		}
		for _, sym := range symbols {
			if _, err := tx.Exec(`
INSERT INTO symbols (name, kind, docname) VALUES (?, ?, ?)
ON CONFLICT(name) DO UPDATE SET kind=excluded.kind, docname=excluded.docname
`, sym.Name, sym.Kind, doc.Name); err != nil {
				_ = tx.Rollback()
				return err
			}
		}

		return tx.Commit()
	})
}

// DeleteDocuments removes the documents and, through the foreign key,
// their symbols.
func (s *Store) DeleteDocuments(docnames []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.withRetry("delete documents", func() error {
		tx, err := s.db.Begin()
		if err != nil {
			return err
		}
		for _, name := range docnames {
			if _, err := tx.Exec(`DELETE FROM documents WHERE docname = ?`, name); err != nil {
				_ = tx.Rollback()
				return err
			}
		}
		return tx.Commit()
	})
}

// LoadFingerprints returns the stored fingerprint per document name.
func (s *Store) LoadFingerprints() (map[string]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var rows *sql.Rows
	err := s.withRetry("load fingerprints", func() error {
		var qErr error
		rows, qErr = s.db.Query(`SELECT docname, fingerprint FROM documents`)
		return qErr
	})
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string]string)
	for rows.Next() {
		var name, fp string
		if err := rows.Scan(&name, &fp); err != nil {
			return nil, fmt.Errorf("scan document row: %w", err)
		}
		out[name] = fp
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate document rows: %w", err)
	}
	return out, nil
}

// LoadSymbols returns every persisted symbol ordered by name.
func (s *Store) LoadSymbols() ([]Symbol, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var rows *sql.Rows
	err := s.withRetry("load symbols", func() error {
		var qErr error
		rows, qErr = s.db.Query(`SELECT name, kind, docname FROM symbols ORDER BY name ASC`)
		return qErr
	})
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Symbol, 0)
	for rows.Next() {
		var sym Symbol
		if err := rows.Scan(&sym.Name, &sym.Kind, &sym.Doc); err != nil {
			return nil, fmt.Errorf("scan symbol row: %w", err)
		}
		out = append(out, sym)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate symbol rows: %w", err)
	}
	return out, nil
}

func (s *Store) withRetry(op string, fn func() error) error {
	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		err := fn()
		if err == nil {
			return nil
		}
		lastErr = err
		if !isLockError(err) || attempt == maxAttempts {
			break
		}
		time.Sleep(time.Duration(attempt*25) * time.Millisecond)
	}
	return fmt.Errorf("%s: %w", op, lastErr)
}

func isLockError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "database is locked") || strings.Contains(msg, "busy")
}

func (s *Store) Path() string {
	if s == nil {
		return ""
	}
	return s.path
}

func IsCorruptError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "malformed") || strings.Contains(msg, "not a database") || errors.Is(err, os.ErrInvalid)
}
