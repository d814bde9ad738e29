package note

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"notekeeper/internal/crypto"
	"notekeeper/internal/domain/sweep"

	"golang.org/x/exp/slog"
)

// Servicer is the personal note lifecycle: durable-or-TTL notes scoped to
// one owner, readable any number of times, re-keyed on every edit.
type Servicer interface {
	Add(ctx context.Context, ownerID, plaintext string, ttl TTLPolicy) (string, error)
	List(ctx context.Context, ownerID string) ([]Item, error)
	Edit(ctx context.Context, ownerID, id, plaintext string) error
	Remove(ctx context.Context, ownerID, id string) error
	Watch(ctx context.Context, ownerID string) (<-chan []Item, error)
}

type Service struct {
	repo    Repository
	sweeper *sweep.Service
	log     *slog.Logger
	now     func() time.Time
}

func NewService(repo Repository, sweeper *sweep.Service, log *slog.Logger) *Service {
	return &Service{
		repo:    repo,
		sweeper: sweeper,
		log:     log.With("component", "note_service"),
		now:     time.Now,
	}
}

// Add encrypts plaintext under a fresh key and persists it. Blank input is
// refused with ErrEmptyNote; callers treat that as a silent no-op, not a
// failure.
func (s *Service) Add(ctx context.Context, ownerID, plaintext string, ttl TTLPolicy) (string, error) {
	if strings.TrimSpace(plaintext) == "" {
		return "", ErrEmptyNote
	}

	ttlSeconds, err := ttl.Seconds()
	if err != nil {
		return "", err
	}

	key, err := crypto.GenerateKey()
	if err != nil {
		return "", fmt.Errorf("add note: %w", err)
	}
	ciphertext, err := crypto.Encrypt(plaintext, key)
	if err != nil {
		return "", fmt.Errorf("add note: %w", err)
	}

	n := &Note{
		OwnerID:    ownerID,
		Ciphertext: ciphertext,
		Key:        string(key),
		CreatedAt:  s.now().UnixMilli(),
		TTLSeconds: ttlSeconds,
	}

	id, err := s.repo.Create(ctx, n)
	if err != nil {
		s.log.Error("failed to create note", "owner_id", ownerID, "error", err)
		return "", fmt.Errorf("create note: %w", err)
	}

	s.log.Info("note created", "note_id", id, "owner_id", ownerID, "ttl_seconds", ttlSeconds)
	return id, nil
}

// List returns the owner's live notes, decrypted, in the order the store
// delivered them. Expired notes observed here are swept before rendering.
func (s *Service) List(ctx context.Context, ownerID string) ([]Item, error) {
	notes, err := s.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		s.log.Error("failed to list notes", "owner_id", ownerID, "error", err)
		return nil, fmt.Errorf("list notes: %w", err)
	}
	return s.render(ctx, notes), nil
}

// Watch is the live variant of List: every snapshot from the store's feed is
// swept and decrypted, and the resulting view is sent until ctx is done.
func (s *Service) Watch(ctx context.Context, ownerID string) (<-chan []Item, error) {
	feed, err := s.repo.WatchByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("watch notes: %w", err)
	}

	out := make(chan []Item)
	go func() {
		defer close(out)
		for notes := range feed {
			select {
			case out <- s.render(ctx, notes):
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, nil
}

// render sweeps a snapshot and decrypts the survivors in arrival order.
func (s *Service) render(ctx context.Context, notes []Note) []Item {
	items := make([]sweep.Item, len(notes))
	for i, n := range notes {
		items[i] = sweep.Item{ID: n.ID, CreatedAt: n.CreatedAt, TTLSeconds: n.TTLSeconds}
	}
	live := s.sweeper.Sweep(ctx, s.repo, items, s.now())

	view := make([]Item, 0, len(live))
	for _, n := range notes {
		if _, ok := live[n.ID]; !ok {
			continue
		}
		text, err := crypto.Decrypt(n.Ciphertext, crypto.Key(n.Key))
		if err != nil {
			s.log.Warn("note failed to decrypt with its stored key", "note_id", n.ID)
			text = DecryptFailedPlaceholder
		}
		view = append(view, Item{
			ID:         n.ID,
			Text:       text,
			CreatedAt:  n.CreatedAt,
			TTLSeconds: n.TTLSeconds,
		})
	}
	return view
}

// Edit re-encrypts the note under a brand new key and replaces ciphertext
// and key together. The old key is never valid for the new ciphertext.
// A note the owner does not hold is reported as ErrNotFound.
func (s *Service) Edit(ctx context.Context, ownerID, id, plaintext string) error {
	if strings.TrimSpace(plaintext) == "" {
		return ErrEmptyNote
	}

	key, err := crypto.GenerateKey()
	if err != nil {
		return fmt.Errorf("edit note: %w", err)
	}
	ciphertext, err := crypto.Encrypt(plaintext, key)
	if err != nil {
		return fmt.Errorf("edit note: %w", err)
	}

	if err := s.repo.UpdateContent(ctx, id, ownerID, ciphertext, string(key)); err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrNotFound
		}
		s.log.Error("failed to update note", "note_id", id, "owner_id", ownerID, "error", err)
		return fmt.Errorf("update note: %w", err)
	}

	s.log.Info("note updated", "note_id", id, "owner_id", ownerID)
	return nil
}

// Remove deletes within the owner's collection. Removing an already-gone or
// foreign note succeeds quietly.
func (s *Service) Remove(ctx context.Context, ownerID, id string) error {
	if err := s.repo.DeleteByOwner(ctx, id, ownerID); err != nil {
		s.log.Error("failed to delete note", "note_id", id, "owner_id", ownerID, "error", err)
		return fmt.Errorf("delete note: %w", err)
	}
	s.log.Info("note deleted", "note_id", id, "owner_id", ownerID)
	return nil
}
