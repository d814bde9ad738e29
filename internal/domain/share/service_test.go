package share

import (
	"context"
	"errors"
	"testing"
	"time"

	"notekeeper/internal/crypto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/slog"
)

// MockRepository is a mock implementation of the Repository interface for testing
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Create(ctx context.Context, n *SharedNote) (string, error) {
	args := m.Called(ctx, n)
	return args.String(0), args.Error(1)
}

func (m *MockRepository) Get(ctx context.Context, id string) (*SharedNote, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*SharedNote), args.Error(1)
}

func (m *MockRepository) MarkOpened(ctx context.Context, id string) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockRepository) ListOpened(ctx context.Context) ([]SharedNote, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]SharedNote), args.Error(1)
}

func newTestService(repo *MockRepository) *Service {
	svc := NewService(repo, slog.Default())
	svc.tick = 5 * time.Millisecond
	return svc
}

func TestService_Share(t *testing.T) {
	repo := new(MockRepository)
	svc := newTestService(repo)

	var stored *SharedNote
	repo.On("Create", mock.Anything, mock.MatchedBy(func(n *SharedNote) bool {
		stored = n
		return n.TTLSeconds == 30 && !n.Opened && n.KeySalt == ""
	})).Return("share-1", nil)

	created, err := svc.Share(context.Background(), "secret", 30)

	require.NoError(t, err)
	assert.Equal(t, "share-1", created.ID)
	assert.NotEmpty(t, created.Key)
	assert.EqualValues(t, 30, created.TTLSeconds)

	// the key is never part of the stored record
	assert.NotContains(t, stored.Ciphertext, created.Key)

	text, err := crypto.Decrypt(stored.Ciphertext, crypto.Key(created.Key))
	require.NoError(t, err)
	assert.Equal(t, "secret", text)
}

func TestService_Share_Validation(t *testing.T) {
	repo := new(MockRepository)
	svc := newTestService(repo)

	_, err := svc.Share(context.Background(), "   ", 30)
	assert.ErrorIs(t, err, ErrEmptyNote)

	_, err = svc.Share(context.Background(), "secret", 0)
	assert.ErrorIs(t, err, ErrInvalidTTL)

	// a ttl beyond the cap is refused outright, not clamped
	_, err = svc.Share(context.Background(), "secret", MaxTTLSeconds+1)
	assert.ErrorIs(t, err, ErrInvalidTTL)

	_, err = svc.Share(context.Background(), "secret", 1<<50)
	assert.ErrorIs(t, err, ErrInvalidTTL)

	_, err = svc.SharePassphrase(context.Background(), "secret", 1<<50, "hunter2")
	assert.ErrorIs(t, err, ErrInvalidTTL)

	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestService_RevealAndBurn(t *testing.T) {
	repo := new(MockRepository)
	svc := newTestService(repo)

	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	ciphertext, err := crypto.Encrypt("secret", key)
	require.NoError(t, err)

	repo.On("Get", mock.Anything, "share-1").Return(&SharedNote{
		ID: "share-1", Ciphertext: ciphertext, TTLSeconds: 5,
	}, nil)
	repo.On("MarkOpened", mock.Anything, "share-1").Return(true, nil)
	repo.On("Delete", mock.Anything, "share-1").Return(nil)

	revealed, err := svc.Reveal(context.Background(), "share-1", string(key))

	require.NoError(t, err)
	assert.Equal(t, "secret", revealed.Text())
	assert.EqualValues(t, 5, revealed.TTLSeconds)

	// countdown runs to zero, clears the plaintext and issues the delete;
	// the tick feed closes on its own once the countdown is over
	var last int64 = -1
	for tick := range revealed.Ticks() {
		last = tick
	}
	assert.EqualValues(t, 0, last)

	select {
	case <-revealed.Done():
	case <-time.After(time.Second):
		t.Fatal("countdown did not complete")
	}

	assert.Empty(t, revealed.Text(), "plaintext cleared after countdown")
	repo.AssertCalled(t, "Delete", mock.Anything, "share-1")
}

func TestService_Reveal_NotFound(t *testing.T) {
	repo := new(MockRepository)
	svc := newTestService(repo)

	repo.On("Get", mock.Anything, "gone").Return(nil, ErrNotFound)

	_, err := svc.Reveal(context.Background(), "gone", "whatever")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestService_Reveal_AlreadyOpened(t *testing.T) {
	repo := new(MockRepository)
	svc := newTestService(repo)

	repo.On("Get", mock.Anything, "share-1").Return(&SharedNote{
		ID: "share-1", Ciphertext: "irrelevant", TTLSeconds: 5, Opened: true,
	}, nil)
	// observing a burned note finishes its destruction
	repo.On("Delete", mock.Anything, "share-1").Return(nil)

	_, err := svc.Reveal(context.Background(), "share-1", "whatever")
	assert.ErrorIs(t, err, ErrAlreadyOpened)
	repo.AssertCalled(t, "Delete", mock.Anything, "share-1")
}

func TestService_Reveal_WrongKeyLeavesNoteUnopened(t *testing.T) {
	repo := new(MockRepository)
	svc := newTestService(repo)

	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	ciphertext, err := crypto.Encrypt("x", key)
	require.NoError(t, err)

	wrongKey, err := crypto.GenerateKey()
	require.NoError(t, err)

	repo.On("Get", mock.Anything, "share-1").Return(&SharedNote{
		ID: "share-1", Ciphertext: ciphertext, TTLSeconds: 10,
	}, nil)

	_, err = svc.Reveal(context.Background(), "share-1", string(wrongKey))
	assert.ErrorIs(t, err, ErrKeyMismatch)
	repo.AssertNotCalled(t, "MarkOpened", mock.Anything, mock.Anything)

	// a subsequent reveal with the correct key still succeeds
	repo.On("MarkOpened", mock.Anything, "share-1").Return(true, nil)
	repo.On("Delete", mock.Anything, "share-1").Return(nil)

	revealed, err := svc.Reveal(context.Background(), "share-1", string(key))
	require.NoError(t, err)
	assert.Equal(t, "x", revealed.Text())
	revealed.Stop()
}

func TestService_Reveal_LostMarkOpenedRace(t *testing.T) {
	repo := new(MockRepository)
	svc := newTestService(repo)

	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	ciphertext, err := crypto.Encrypt("secret", key)
	require.NoError(t, err)

	repo.On("Get", mock.Anything, "share-1").Return(&SharedNote{
		ID: "share-1", Ciphertext: ciphertext, TTLSeconds: 5,
	}, nil)
	// another reader flipped the flag between our Get and MarkOpened
	repo.On("MarkOpened", mock.Anything, "share-1").Return(false, nil)

	_, err = svc.Reveal(context.Background(), "share-1", string(key))
	assert.ErrorIs(t, err, ErrAlreadyOpened)
}

func TestService_Reveal_MarkOpenedFailureIsBestEffort(t *testing.T) {
	repo := new(MockRepository)
	svc := newTestService(repo)

	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	ciphertext, err := crypto.Encrypt("secret", key)
	require.NoError(t, err)

	repo.On("Get", mock.Anything, "share-1").Return(&SharedNote{
		ID: "share-1", Ciphertext: ciphertext, TTLSeconds: 5,
	}, nil)
	repo.On("MarkOpened", mock.Anything, "share-1").Return(false, errors.New("store unavailable"))

	// the read still proceeds for this caller
	revealed, err := svc.Reveal(context.Background(), "share-1", string(key))
	require.NoError(t, err)
	assert.Equal(t, "secret", revealed.Text())
	revealed.Stop()
}

func TestRevealed_StopClearsWithoutDelete(t *testing.T) {
	repo := new(MockRepository)
	svc := newTestService(repo)

	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	ciphertext, err := crypto.Encrypt("secret", key)
	require.NoError(t, err)

	repo.On("Get", mock.Anything, "share-1").Return(&SharedNote{
		ID: "share-1", Ciphertext: ciphertext, TTLSeconds: 3600,
	}, nil)
	repo.On("MarkOpened", mock.Anything, "share-1").Return(true, nil)

	revealed, err := svc.Reveal(context.Background(), "share-1", string(key))
	require.NoError(t, err)

	revealed.Stop()
	revealed.Stop() // safe to call twice

	assert.Empty(t, revealed.Text())
	repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)

	// anyone still ranging over the tick feed is released
	drained := make(chan struct{})
	go func() {
		for range revealed.Ticks() {
		}
		close(drained)
	}()
	select {
	case <-drained:
	case <-time.After(time.Second):
		t.Fatal("tick feed not closed after Stop")
	}
}

func TestService_Reveal_OversizedStoredTTL(t *testing.T) {
	repo := new(MockRepository)
	svc := newTestService(repo)

	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	ciphertext, err := crypto.Encrypt("secret", key)
	require.NoError(t, err)

	// a record with an absurd ttl, however it got written, must not take
	// the reveal down with it
	repo.On("Get", mock.Anything, "share-1").Return(&SharedNote{
		ID: "share-1", Ciphertext: ciphertext, TTLSeconds: 1 << 50,
	}, nil)
	repo.On("MarkOpened", mock.Anything, "share-1").Return(true, nil)

	revealed, err := svc.Reveal(context.Background(), "share-1", string(key))
	require.NoError(t, err)
	assert.Equal(t, "secret", revealed.Text())
	assert.EqualValues(t, 1<<50, revealed.TTLSeconds)
	revealed.Stop()
}

func TestService_SharePassphrase_RevealRoundTrip(t *testing.T) {
	repo := new(MockRepository)
	svc := newTestService(repo)

	var stored *SharedNote
	repo.On("Create", mock.Anything, mock.MatchedBy(func(n *SharedNote) bool {
		stored = n
		return n.KeySalt != ""
	})).Return("share-p", nil)

	created, err := svc.SharePassphrase(context.Background(), "between us", 10, "hunter2")
	require.NoError(t, err)
	assert.Empty(t, created.Key, "no key material leaves the service for passphrase shares")

	stored.ID = "share-p"
	repo.On("Get", mock.Anything, "share-p").Return(stored, nil)
	repo.On("MarkOpened", mock.Anything, "share-p").Return(true, nil)
	repo.On("Delete", mock.Anything, "share-p").Return(nil)

	_, err = svc.Reveal(context.Background(), "share-p", "wrong passphrase")
	assert.ErrorIs(t, err, ErrKeyMismatch)

	revealed, err := svc.Reveal(context.Background(), "share-p", "hunter2")
	require.NoError(t, err)
	assert.Equal(t, "between us", revealed.Text())
	revealed.Stop()
}
