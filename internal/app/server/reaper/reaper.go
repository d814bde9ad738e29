// Package reaper runs the background cleanup pass: expired personal notes
// and already-opened shared notes are deleted on a schedule, so records
// disappear even when no client is around to observe them.
package reaper

import (
	"context"
	"fmt"
	"time"

	"notekeeper/internal/domain/note"
	"notekeeper/internal/domain/share"
	"notekeeper/internal/domain/sweep"

	"github.com/robfig/cron/v3"
	"golang.org/x/exp/slog"
)

type Reaper struct {
	notes   note.Repository
	shares  share.Repository
	sweeper *sweep.Service
	log     *slog.Logger
	cron    *cron.Cron
	now     func() time.Time
}

func New(notes note.Repository, shares share.Repository, sweeper *sweep.Service, log *slog.Logger) *Reaper {
	return &Reaper{
		notes:   notes,
		shares:  shares,
		sweeper: sweeper,
		log:     log.With("component", "reaper"),
		cron:    cron.New(),
		now:     time.Now,
	}
}

// Start schedules the cleanup pass. The schedule uses cron syntax,
// "@every 1m" style intervals included.
func (r *Reaper) Start(schedule string) error {
	_, err := r.cron.AddFunc(schedule, func() {
		if err := r.Run(context.Background()); err != nil {
			r.log.Error("cleanup pass failed", "error", err)
		}
	})
	if err != nil {
		return fmt.Errorf("schedule reaper: %w", err)
	}
	r.cron.Start()
	r.log.Info("reaper started", "schedule", schedule)
	return nil
}

// Stop halts the schedule and waits for a running pass to finish.
func (r *Reaper) Stop() {
	ctx := r.cron.Stop()
	<-ctx.Done()
	r.log.Info("reaper stopped")
}

// Run executes one cleanup pass. Failures on individual records are logged
// and skipped; the pass itself only fails when a listing fails.
func (r *Reaper) Run(ctx context.Context) error {
	if err := r.reapExpiredNotes(ctx); err != nil {
		return err
	}
	return r.reapOpenedShares(ctx)
}

func (r *Reaper) reapExpiredNotes(ctx context.Context) error {
	notes, err := r.notes.ListWithTTL(ctx)
	if err != nil {
		return fmt.Errorf("list notes with ttl: %w", err)
	}

	items := make([]sweep.Item, len(notes))
	for i, n := range notes {
		items[i] = sweep.Item{ID: n.ID, CreatedAt: n.CreatedAt, TTLSeconds: n.TTLSeconds}
	}

	live := r.sweeper.Sweep(ctx, r.notes, items, r.now())
	if reaped := len(notes) - len(live); reaped > 0 {
		r.log.Info("expired notes reaped", "count", reaped)
	}
	return nil
}

func (r *Reaper) reapOpenedShares(ctx context.Context) error {
	shares, err := r.shares.ListOpened(ctx)
	if err != nil {
		return fmt.Errorf("list opened shares: %w", err)
	}

	reaped := 0
	for _, n := range shares {
		// An opened share whose countdown never completed (reader crashed,
		// server restarted) is logically dead; finish the job here.
		if err := r.shares.Delete(ctx, n.ID); err != nil {
			r.log.Error("failed to delete opened share", "share_id", n.ID, "error", err)
			continue
		}
		reaped++
	}
	if reaped > 0 {
		r.log.Info("opened shares reaped", "count", reaped)
	}
	return nil
}
