package postgres

import (
	"context"
	"errors"
	"fmt"

	"notekeeper/internal/domain/share"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/exp/slog"
)

type ShareRepository struct {
	pool *pgxpool.Pool
	log  *slog.Logger
}

func NewShareRepository(pool *pgxpool.Pool, log *slog.Logger) *ShareRepository {
	return &ShareRepository{
		pool: pool,
		log:  log.With("component", "share_repository"),
	}
}

func (r *ShareRepository) Create(ctx context.Context, n *share.SharedNote) (string, error) {
	const query = `
		INSERT INTO shared_notes (id, ciphertext, created_at, ttl_seconds, opened, key_salt)
		VALUES ($1, $2, $3, $4, FALSE, $5)`

	id := uuid.NewString()

	_, err := r.pool.Exec(ctx, query, id, n.Ciphertext, n.CreatedAt, n.TTLSeconds, n.KeySalt)
	if err != nil {
		r.log.Error("failed to create shared note", "error", err)
		return "", fmt.Errorf("create shared note: %w", err)
	}

	n.ID = id
	return id, nil
}

func (r *ShareRepository) Get(ctx context.Context, id string) (*share.SharedNote, error) {
	const query = `
		SELECT id, ciphertext, created_at, ttl_seconds, opened, key_salt
		FROM shared_notes
		WHERE id = $1`

	var n share.SharedNote
	err := r.pool.QueryRow(ctx, query, id).
		Scan(&n.ID, &n.Ciphertext, &n.CreatedAt, &n.TTLSeconds, &n.Opened, &n.KeySalt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, share.ErrNotFound
		}
		r.log.Error("failed to get shared note", "share_id", id, "error", err)
		return nil, fmt.Errorf("get shared note: %w", err)
	}
	return &n, nil
}

// MarkOpened is the conditional check-and-set that makes the burn decision:
// only one caller ever sees a row flipped.
func (r *ShareRepository) MarkOpened(ctx context.Context, id string) (bool, error) {
	const query = `
		UPDATE shared_notes
		SET opened = TRUE
		WHERE id = $1 AND opened = FALSE`

	result, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		r.log.Error("failed to mark shared note opened", "share_id", id, "error", err)
		return false, fmt.Errorf("mark opened: %w", err)
	}
	return result.RowsAffected() == 1, nil
}

// Delete is idempotent: zero affected rows is still success.
func (r *ShareRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM shared_notes WHERE id = $1`

	if _, err := r.pool.Exec(ctx, query, id); err != nil {
		r.log.Error("failed to delete shared note", "share_id", id, "error", err)
		return fmt.Errorf("delete shared note: %w", err)
	}
	return nil
}

func (r *ShareRepository) ListOpened(ctx context.Context) ([]share.SharedNote, error) {
	const query = `
		SELECT id, ciphertext, created_at, ttl_seconds, opened, key_salt
		FROM shared_notes
		WHERE opened = TRUE`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		r.log.Error("failed to list opened shared notes", "error", err)
		return nil, fmt.Errorf("list opened shared notes: %w", err)
	}
	defer rows.Close()

	var notes []share.SharedNote
	for rows.Next() {
		var n share.SharedNote
		if err := rows.Scan(&n.ID, &n.Ciphertext, &n.CreatedAt, &n.TTLSeconds, &n.Opened, &n.KeySalt); err != nil {
			return nil, fmt.Errorf("scan shared note: %w", err)
		}
		notes = append(notes, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate shared notes: %w", err)
	}
	return notes, nil
}
