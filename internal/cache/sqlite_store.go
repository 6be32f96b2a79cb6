// Package cache persiste les réponses de l'API de transcripts dans une base SQLite locale,
// pour éviter de refaire une requête réseau pour une vidéo déjà consultée.
package cache

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

const schema = `CREATE TABLE IF NOT EXISTS responses (
	key        TEXT PRIMARY KEY,
	payload    BLOB NOT NULL,
	stored_at  INTEGER NOT NULL,
	expires_at INTEGER NOT NULL
);`

// Store est un cache clé -> payload JSON avec expiration.
type Store struct {
	db  *sql.DB
	ttl time.Duration
	now func() time.Time
}

// Open ouvre (ou crée) la base à path. ttl <= 0 : les entrées n'expirent jamais.
func Open(path string, ttl time.Duration) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("cache: db path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("cache: create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("cache: open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	s := &Store{db: db, ttl: ttl, now: time.Now}
	if err := s.init(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) init(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, "PRAGMA journal_mode = WAL;"); err != nil {
		return fmt.Errorf("cache: set WAL mode: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, "PRAGMA busy_timeout = 5000;"); err != nil {
		return fmt.Errorf("cache: set busy timeout: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("cache: create schema: %w", err)
	}
	return nil
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Key construit une clé déterministe à partir des parties (ex: type d'entrée, video id, code langue).
// Chaque partie est préfixée par sa longueur : deux listes différentes ne donnent
// jamais la même entrée de hachage, même si une partie contient "|".
func Key(parts ...string) string {
	h := sha256.New()
	for _, p := range parts {
		fmt.Fprintf(h, "%d:%s|", len(p), p)
	}
	return fmt.Sprintf("tr:%x", h.Sum(nil)[:12])
}

// Get retourne le payload associé à key. ok == false si absent ou expiré.
func (s *Store) Get(ctx context.Context, key string) (payload []byte, ok bool, err error) {
	var expiresAt int64
	row := s.db.QueryRowContext(ctx, `SELECT payload, expires_at FROM responses WHERE key = ?`, key)
	if err := row.Scan(&payload, &expiresAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("cache: get %s: %w", key, err)
	}
	if expiresAt > 0 && s.now().Unix() >= expiresAt {
		return nil, false, nil
	}
	return payload, true, nil
}

// Put enregistre (ou remplace) le payload pour key.
func (s *Store) Put(ctx context.Context, key string, payload []byte) error {
	now := s.now()
	var expiresAt int64
	if s.ttl > 0 {
		expiresAt = now.Add(s.ttl).Unix()
	}
	_, err := s.db.ExecContext(ctx, `INSERT INTO responses (key, payload, stored_at, expires_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET payload = excluded.payload, stored_at = excluded.stored_at, expires_at = excluded.expires_at`,
		key, payload, now.Unix(), expiresAt)
	if err != nil {
		return fmt.Errorf("cache: put %s: %w", key, err)
	}
	return nil
}

// Prune supprime les entrées expirées et retourne leur nombre.
func (s *Store) Prune(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM responses WHERE expires_at > 0 AND expires_at <= ?`, s.now().Unix())
	if err != nil {
		return 0, fmt.Errorf("cache: prune: %w", err)
	}
	return res.RowsAffected()
}
