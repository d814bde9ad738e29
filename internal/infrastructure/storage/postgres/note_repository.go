package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"notekeeper/internal/domain/note"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/exp/slog"
)

// notesChannel is the NOTIFY channel fired by the notes_changed trigger;
// the payload is the owner id of the affected row.
const notesChannel = "notes_changed"

// watchInterval bounds how stale a watched snapshot can get without any
// notification arriving: the feed re-evaluates at least this often.
const watchInterval = time.Second

type NoteRepository struct {
	pool *pgxpool.Pool
	log  *slog.Logger
}

func NewNoteRepository(pool *pgxpool.Pool, log *slog.Logger) *NoteRepository {
	return &NoteRepository{
		pool: pool,
		log:  log.With("component", "note_repository"),
	}
}

func (r *NoteRepository) Create(ctx context.Context, n *note.Note) (string, error) {
	const query = `
		INSERT INTO notes (id, owner_id, ciphertext, enc_key, created_at, ttl_seconds)
		VALUES ($1, $2, $3, $4, $5, $6)`

	// Ids are generated, not sequential: a deleted id is never reused.
	id := uuid.NewString()

	var ttl *int64
	if n.TTLSeconds > 0 {
		ttl = &n.TTLSeconds
	}

	_, err := r.pool.Exec(ctx, query, id, n.OwnerID, n.Ciphertext, n.Key, n.CreatedAt, ttl)
	if err != nil {
		r.log.Error("failed to create note", "owner_id", n.OwnerID, "error", err)
		return "", fmt.Errorf("create note: %w", err)
	}

	n.ID = id
	return id, nil
}

func (r *NoteRepository) Get(ctx context.Context, id string) (*note.Note, error) {
	const query = `
		SELECT id, owner_id, ciphertext, enc_key, created_at, ttl_seconds
		FROM notes
		WHERE id = $1`

	n, err := scanNote(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, note.ErrNotFound
		}
		r.log.Error("failed to get note", "note_id", id, "error", err)
		return nil, fmt.Errorf("get note: %w", err)
	}
	return n, nil
}

// UpdateContent replaces ciphertext and key in one statement, so a reader
// can never observe a stale key next to fresh ciphertext. The owner filter
// makes a foreign note indistinguishable from a missing one.
func (r *NoteRepository) UpdateContent(ctx context.Context, id, ownerID, ciphertext, key string) error {
	const query = `
		UPDATE notes
		SET ciphertext = $3, enc_key = $4
		WHERE id = $1 AND owner_id = $2`

	result, err := r.pool.Exec(ctx, query, id, ownerID, ciphertext, key)
	if err != nil {
		r.log.Error("failed to update note", "note_id", id, "error", err)
		return fmt.Errorf("update note: %w", err)
	}
	if result.RowsAffected() == 0 {
		return note.ErrNotFound
	}
	return nil
}

// Delete is idempotent: zero affected rows is still success.
func (r *NoteRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM notes WHERE id = $1`

	if _, err := r.pool.Exec(ctx, query, id); err != nil {
		r.log.Error("failed to delete note", "note_id", id, "error", err)
		return fmt.Errorf("delete note: %w", err)
	}
	return nil
}

// DeleteByOwner deletes only within the owner's collection. Like Delete,
// zero affected rows is still success.
func (r *NoteRepository) DeleteByOwner(ctx context.Context, id, ownerID string) error {
	const query = `DELETE FROM notes WHERE id = $1 AND owner_id = $2`

	if _, err := r.pool.Exec(ctx, query, id, ownerID); err != nil {
		r.log.Error("failed to delete note", "note_id", id, "owner_id", ownerID, "error", err)
		return fmt.Errorf("delete note: %w", err)
	}
	return nil
}

// ListByOwner returns the owner's notes in arrival order (the seq column),
// never re-sorted by content or timestamps.
func (r *NoteRepository) ListByOwner(ctx context.Context, ownerID string) ([]note.Note, error) {
	const query = `
		SELECT id, owner_id, ciphertext, enc_key, created_at, ttl_seconds
		FROM notes
		WHERE owner_id = $1
		ORDER BY seq`

	rows, err := r.pool.Query(ctx, query, ownerID)
	if err != nil {
		r.log.Error("failed to list notes", "owner_id", ownerID, "error", err)
		return nil, fmt.Errorf("list notes: %w", err)
	}
	defer rows.Close()

	return scanNotes(rows)
}

func (r *NoteRepository) ListWithTTL(ctx context.Context) ([]note.Note, error) {
	const query = `
		SELECT id, owner_id, ciphertext, enc_key, created_at, ttl_seconds
		FROM notes
		WHERE ttl_seconds IS NOT NULL
		ORDER BY seq`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		r.log.Error("failed to list ttl notes", "error", err)
		return nil, fmt.Errorf("list ttl notes: %w", err)
	}
	defer rows.Close()

	return scanNotes(rows)
}

// WatchByOwner delivers a snapshot of the owner's notes on every relevant
// change notification and at least once per watchInterval. A dedicated
// connection holds the LISTEN for the lifetime of the watch.
func (r *NoteRepository) WatchByOwner(ctx context.Context, ownerID string) (<-chan []note.Note, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire watch connection: %w", err)
	}
	if _, err := conn.Exec(ctx, "LISTEN "+notesChannel); err != nil {
		conn.Release()
		return nil, fmt.Errorf("listen %s: %w", notesChannel, err)
	}

	out := make(chan []note.Note)
	go func() {
		defer close(out)
		defer conn.Release()

		for {
			notes, err := r.ListByOwner(ctx, ownerID)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				r.log.Error("watch snapshot failed", "owner_id", ownerID, "error", err)
			} else {
				select {
				case out <- notes:
				case <-ctx.Done():
					return
				}
			}

			if !r.waitForChange(ctx, conn, ownerID) {
				return
			}
		}
	}()
	return out, nil
}

// waitForChange blocks until a notification for this owner arrives or the
// re-evaluation interval elapses. Returns false when the watch should stop.
func (r *NoteRepository) waitForChange(ctx context.Context, conn *pgxpool.Conn, ownerID string) bool {
	waitCtx, cancel := context.WithTimeout(ctx, watchInterval)
	defer cancel()

	notification, err := conn.Conn().WaitForNotification(waitCtx)
	if err != nil {
		// Interval elapsed: re-evaluate anyway so expiry is observed at
		// least once per second while anyone is watching.
		return ctx.Err() == nil
	}
	if notification.Payload != ownerID {
		// Somebody else's change; the snapshot query filters by owner, so
		// re-querying is merely redundant, not wrong.
		return true
	}
	return true
}

func scanNote(row pgx.Row) (*note.Note, error) {
	var n note.Note
	var ttl *int64
	if err := row.Scan(&n.ID, &n.OwnerID, &n.Ciphertext, &n.Key, &n.CreatedAt, &ttl); err != nil {
		return nil, err
	}
	if ttl != nil {
		n.TTLSeconds = *ttl
	}
	return &n, nil
}

func scanNotes(rows pgx.Rows) ([]note.Note, error) {
	var notes []note.Note
	for rows.Next() {
		n, err := scanNote(rows)
		if err != nil {
			return nil, fmt.Errorf("scan note: %w", err)
		}
		notes = append(notes, *n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate notes: %w", err)
	}
	return notes, nil
}
