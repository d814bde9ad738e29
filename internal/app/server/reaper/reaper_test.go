package reaper

import (
	"context"
	"errors"
	"testing"
	"time"

	"notekeeper/internal/domain/note"
	"notekeeper/internal/domain/share"
	"notekeeper/internal/domain/sweep"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/slog"
)

type MockNoteRepository struct {
	mock.Mock
}

func (m *MockNoteRepository) Create(ctx context.Context, n *note.Note) (string, error) {
	args := m.Called(ctx, n)
	return args.String(0), args.Error(1)
}

func (m *MockNoteRepository) Get(ctx context.Context, id string) (*note.Note, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*note.Note), args.Error(1)
}

func (m *MockNoteRepository) UpdateContent(ctx context.Context, id, ownerID, ciphertext, key string) error {
	args := m.Called(ctx, id, ownerID, ciphertext, key)
	return args.Error(0)
}

func (m *MockNoteRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockNoteRepository) DeleteByOwner(ctx context.Context, id, ownerID string) error {
	args := m.Called(ctx, id, ownerID)
	return args.Error(0)
}

func (m *MockNoteRepository) ListByOwner(ctx context.Context, ownerID string) ([]note.Note, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]note.Note), args.Error(1)
}

func (m *MockNoteRepository) ListWithTTL(ctx context.Context) ([]note.Note, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]note.Note), args.Error(1)
}

func (m *MockNoteRepository) WatchByOwner(ctx context.Context, ownerID string) (<-chan []note.Note, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(<-chan []note.Note), args.Error(1)
}

type MockShareRepository struct {
	mock.Mock
}

func (m *MockShareRepository) Create(ctx context.Context, n *share.SharedNote) (string, error) {
	args := m.Called(ctx, n)
	return args.String(0), args.Error(1)
}

func (m *MockShareRepository) Get(ctx context.Context, id string) (*share.SharedNote, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*share.SharedNote), args.Error(1)
}

func (m *MockShareRepository) MarkOpened(ctx context.Context, id string) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockShareRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockShareRepository) ListOpened(ctx context.Context) ([]share.SharedNote, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]share.SharedNote), args.Error(1)
}

func newTestReaper(notes *MockNoteRepository, shares *MockShareRepository, now time.Time) *Reaper {
	log := slog.Default()
	r := New(notes, shares, sweep.NewService(log), log)
	r.now = func() time.Time { return now }
	return r
}

func TestRun_ReapsExpiredNotes(t *testing.T) {
	now := time.Now()
	notes := new(MockNoteRepository)
	shares := new(MockShareRepository)

	stored := []note.Note{
		{ID: "expired", CreatedAt: now.Add(-2 * time.Minute).UnixMilli(), TTLSeconds: 60},
		{ID: "live", CreatedAt: now.UnixMilli(), TTLSeconds: 3600},
	}
	notes.On("ListWithTTL", mock.Anything).Return(stored, nil)
	notes.On("Delete", mock.Anything, "expired").Return(nil)
	shares.On("ListOpened", mock.Anything).Return([]share.SharedNote{}, nil)

	r := newTestReaper(notes, shares, now)
	err := r.Run(context.Background())

	require.NoError(t, err)
	notes.AssertExpectations(t)
	notes.AssertNotCalled(t, "Delete", mock.Anything, "live")
}

func TestRun_ReapsOpenedShares(t *testing.T) {
	now := time.Now()
	notes := new(MockNoteRepository)
	shares := new(MockShareRepository)

	notes.On("ListWithTTL", mock.Anything).Return([]note.Note{}, nil)
	shares.On("ListOpened", mock.Anything).Return([]share.SharedNote{
		{ID: "s1", Opened: true},
		{ID: "s2", Opened: true},
	}, nil)
	shares.On("Delete", mock.Anything, "s1").Return(nil)
	shares.On("Delete", mock.Anything, "s2").Return(nil)

	r := newTestReaper(notes, shares, now)
	err := r.Run(context.Background())

	require.NoError(t, err)
	shares.AssertExpectations(t)
}

func TestRun_ShareDeleteFailureDoesNotAbortPass(t *testing.T) {
	now := time.Now()
	notes := new(MockNoteRepository)
	shares := new(MockShareRepository)

	notes.On("ListWithTTL", mock.Anything).Return([]note.Note{}, nil)
	shares.On("ListOpened", mock.Anything).Return([]share.SharedNote{
		{ID: "s1", Opened: true},
		{ID: "s2", Opened: true},
	}, nil)
	shares.On("Delete", mock.Anything, "s1").Return(errors.New("connection refused"))
	shares.On("Delete", mock.Anything, "s2").Return(nil)

	r := newTestReaper(notes, shares, now)
	err := r.Run(context.Background())

	require.NoError(t, err)
	shares.AssertExpectations(t)
}

func TestRun_ListFailure(t *testing.T) {
	now := time.Now()
	notes := new(MockNoteRepository)
	shares := new(MockShareRepository)

	notes.On("ListWithTTL", mock.Anything).Return(nil, errors.New("connection refused"))

	r := newTestReaper(notes, shares, now)
	err := r.Run(context.Background())

	assert.Error(t, err)
	shares.AssertNotCalled(t, "ListOpened", mock.Anything)
}

func TestStart_InvalidSchedule(t *testing.T) {
	r := newTestReaper(new(MockNoteRepository), new(MockShareRepository), time.Now())
	err := r.Start("not a schedule")
	assert.Error(t, err)
}
