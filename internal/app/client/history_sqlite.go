package client

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// HistoryEntry is one created share as remembered locally. The key is
// deliberately absent: history must never be enough to open a note.
type HistoryEntry struct {
	ShareID    string
	Link       string
	TTLSeconds int64
	CreatedAt  time.Time
}

// HistoryStore keeps the local record of shares this client created.
type HistoryStore struct {
	db *sql.DB
}

func NewHistoryStore(path string) (*HistoryStore, error) {
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("open history database: %w", err)
	}

	store := &HistoryStore{db: db}
	if err := store.initTables(); err != nil {
		db.Close()
		return nil, fmt.Errorf("init history tables: %w", err)
	}
	return store, nil
}

func (s *HistoryStore) initTables() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS share_history (
			share_id TEXT PRIMARY KEY,
			link TEXT NOT NULL,
			ttl_seconds INTEGER NOT NULL,
			created_at DATETIME NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_share_history_created ON share_history(created_at);
	`)
	return err
}

func (s *HistoryStore) Save(entry *HistoryEntry) error {
	_, err := s.db.Exec(`
		INSERT OR REPLACE INTO share_history (share_id, link, ttl_seconds, created_at)
		VALUES (?, ?, ?, ?)
	`, entry.ShareID, entry.Link, entry.TTLSeconds, entry.CreatedAt)
	if err != nil {
		return fmt.Errorf("save history entry: %w", err)
	}
	return nil
}

// List returns entries newest first.
func (s *HistoryStore) List() ([]*HistoryEntry, error) {
	rows, err := s.db.Query(`
		SELECT share_id, link, ttl_seconds, created_at
		FROM share_history
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	defer rows.Close()

	var entries []*HistoryEntry
	for rows.Next() {
		var e HistoryEntry
		if err := rows.Scan(&e.ShareID, &e.Link, &e.TTLSeconds, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan history entry: %w", err)
		}
		entries = append(entries, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate history: %w", err)
	}
	return entries, nil
}

func (s *HistoryStore) Close() error {
	return s.db.Close()
}
