package share

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"notekeeper/internal/crypto"

	"golang.org/x/exp/slog"
)

// MaxTTLSeconds caps how long a revealed note may stay readable. A share
// that needs to outlive a week is not an ephemeral note.
const MaxTTLSeconds int64 = 7 * 24 * 3600

// Servicer is the shared note lifecycle: create once, read at most once,
// self-destruct after a countdown.
type Servicer interface {
	Share(ctx context.Context, plaintext string, ttlSeconds int64) (*Created, error)
	SharePassphrase(ctx context.Context, plaintext string, ttlSeconds int64, passphrase string) (*Created, error)
	Reveal(ctx context.Context, id, secret string) (*Revealed, error)
}

type Service struct {
	repo Repository
	log  *slog.Logger
	now  func() time.Time
	// tick is the countdown interval, one second outside of tests.
	tick time.Duration
}

func NewService(repo Repository, log *slog.Logger) *Service {
	return &Service{
		repo: repo,
		log:  log.With("component", "share_service"),
		now:  time.Now,
		tick: time.Second,
	}
}

// Share encrypts plaintext under a fresh key, persists the ciphertext and
// returns id and key to the creator. The key is never written to the store;
// it is the creator's job to carry it out-of-band (usually in the link
// fragment, see BuildLink).
func (s *Service) Share(ctx context.Context, plaintext string, ttlSeconds int64) (*Created, error) {
	if strings.TrimSpace(plaintext) == "" {
		return nil, ErrEmptyNote
	}
	if ttlSeconds <= 0 || ttlSeconds > MaxTTLSeconds {
		return nil, ErrInvalidTTL
	}

	key, err := crypto.GenerateKey()
	if err != nil {
		return nil, fmt.Errorf("share note: %w", err)
	}

	id, err := s.create(ctx, plaintext, ttlSeconds, key, "")
	if err != nil {
		return nil, err
	}
	return &Created{ID: id, Key: string(key), TTLSeconds: ttlSeconds}, nil
}

// SharePassphrase is the hardened variant: the key is derived from the
// passphrase and a random per-note salt, so no key material exists outside
// the two parties' heads. Only the salt is persisted.
func (s *Service) SharePassphrase(ctx context.Context, plaintext string, ttlSeconds int64, passphrase string) (*Created, error) {
	if strings.TrimSpace(plaintext) == "" {
		return nil, ErrEmptyNote
	}
	if ttlSeconds <= 0 || ttlSeconds > MaxTTLSeconds {
		return nil, ErrInvalidTTL
	}
	if passphrase == "" {
		return nil, ErrKeyMismatch
	}

	salt, err := crypto.GenerateSalt()
	if err != nil {
		return nil, fmt.Errorf("share note: %w", err)
	}
	key := crypto.DeriveKey(passphrase, salt)

	id, err := s.create(ctx, plaintext, ttlSeconds, key, hex.EncodeToString(salt))
	if err != nil {
		return nil, err
	}
	return &Created{ID: id, TTLSeconds: ttlSeconds}, nil
}

func (s *Service) create(ctx context.Context, plaintext string, ttlSeconds int64, key crypto.Key, keySalt string) (string, error) {
	ciphertext, err := crypto.Encrypt(plaintext, key)
	if err != nil {
		return "", fmt.Errorf("share note: %w", err)
	}

	n := &SharedNote{
		Ciphertext: ciphertext,
		CreatedAt:  s.now().UnixMilli(),
		TTLSeconds: ttlSeconds,
		KeySalt:    keySalt,
	}
	id, err := s.repo.Create(ctx, n)
	if err != nil {
		s.log.Error("failed to create shared note", "error", err)
		return "", fmt.Errorf("create shared note: %w", err)
	}

	s.log.Info("shared note created", "share_id", id, "ttl_seconds", ttlSeconds,
		"passphrase", keySalt != "")
	return id, nil
}

// Reveal performs the single-shot read-and-burn. secret is either the raw
// key from the link fragment or, for passphrase-protected shares, the
// passphrase itself. On success the returned handle holds the plaintext and
// a running countdown that deletes the record when it reaches zero.
func (s *Service) Reveal(ctx context.Context, id, secret string) (*Revealed, error) {
	n, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		s.log.Error("failed to fetch shared note", "share_id", id, "error", err)
		return nil, fmt.Errorf("fetch shared note: %w", err)
	}

	if n.Opened {
		// Logically dead; any observer may finish the physical destruction.
		if err := s.repo.Delete(ctx, id); err != nil {
			s.log.Error("failed to sweep burned shared note", "share_id", id, "error", err)
		}
		return nil, ErrAlreadyOpened
	}

	key := crypto.Key(secret)
	if n.KeySalt != "" {
		salt, err := hex.DecodeString(n.KeySalt)
		if err != nil {
			s.log.Error("shared note has a corrupt key salt", "share_id", id)
			return nil, ErrKeyMismatch
		}
		key = crypto.DeriveKey(secret, salt)
	}

	plaintext, err := crypto.Decrypt(n.Ciphertext, key)
	if err != nil {
		// Wrong key leaves the note unopened; a later caller with the right
		// key still gets its one read.
		return nil, ErrKeyMismatch
	}

	burned, err := s.repo.MarkOpened(ctx, id)
	if err != nil {
		// Best effort: this reader already holds the plaintext legitimately.
		// The record stays vulnerable to a second read until some write lands.
		s.log.Error("failed to mark shared note opened", "share_id", id, "error", err)
	} else if !burned {
		// A racing reader flipped the flag between our Get and here. The
		// conditional update decides the winner; we lost, so no plaintext.
		return nil, ErrAlreadyOpened
	}

	s.log.Info("shared note revealed", "share_id", id, "ttl_seconds", n.TTLSeconds)
	return s.startCountdown(id, plaintext, n.TTLSeconds), nil
}

// Revealed is the reader's handle on a revealed note: the plaintext plus
// the self-destruct countdown. The plaintext is cleared on every exit path,
// whether the countdown completes or the reader abandons it.
type Revealed struct {
	TTLSeconds int64

	mu   sync.Mutex
	text string

	ticks chan int64
	done  chan struct{}
	stop  chan struct{}
	once  sync.Once
}

// Text returns the plaintext, or the empty string once cleared.
func (r *Revealed) Text() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.text
}

// Ticks delivers the remaining seconds after every countdown tick. Slow
// consumers miss intermediate ticks rather than stalling the countdown.
// The channel is closed when the countdown goroutine exits.
func (r *Revealed) Ticks() <-chan int64 {
	return r.ticks
}

// Done closes when the countdown completed and the delete was issued.
func (r *Revealed) Done() <-chan struct{} {
	return r.done
}

// Stop abandons the countdown: the plaintext is cleared but no delete is
// issued by this reader. The record remains subject to sweeping by any
// other observer.
func (r *Revealed) Stop() {
	r.once.Do(func() { close(r.stop) })
	r.clear()
}

func (r *Revealed) clear() {
	r.mu.Lock()
	r.text = ""
	r.mu.Unlock()
}

func (s *Service) startCountdown(id, plaintext string, ttlSeconds int64) *Revealed {
	r := &Revealed{
		TTLSeconds: ttlSeconds,
		// The send below never blocks, so a single slot is all the buffer
		// a tick ever needs; a slow consumer just misses intermediate ticks.
		ticks: make(chan int64, 1),
		text:  plaintext,
		done:  make(chan struct{}),
		stop:  make(chan struct{}),
	}

	go func() {
		defer close(r.ticks)
		defer r.clear()

		ticker := time.NewTicker(s.tick)
		defer ticker.Stop()

		remaining := ttlSeconds
		for remaining > 0 {
			select {
			case <-ticker.C:
				remaining--
				// Keep the freshest value: evict a stale buffered tick
				// rather than blocking the countdown on a slow consumer.
				select {
				case r.ticks <- remaining:
				default:
					select {
					case <-r.ticks:
					default:
					}
					r.ticks <- remaining
				}
			case <-r.stop:
				return
			}
		}

		r.clear()
		// The delete is issued regardless of who else got there first;
		// deletes are idempotent.
		if err := s.repo.Delete(context.Background(), id); err != nil {
			s.log.Error("failed to delete shared note after countdown", "share_id", id, "error", err)
		}
		close(r.done)
	}()

	return r
}
