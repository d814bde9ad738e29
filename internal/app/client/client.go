package client

import (
	"context"
	"fmt"
	"os"
	"time"

	"golang.org/x/exp/slog"

	"notekeeper/internal/app/client/config"
	"notekeeper/internal/domain/note"
)

// App ties the CLI commands to the server API and the local share history.
type App struct {
	config     *config.Config
	log        *slog.Logger
	httpClient *httpClient
	history    *HistoryStore
}

func New(cfg *config.Config, log *slog.Logger) (*App, error) {
	httpCl, err := NewHTTPClient(cfg, log)
	if err != nil {
		return nil, fmt.Errorf("init http client: %w", err)
	}

	history, err := NewHistoryStore(cfg.HistoryPath)
	if err != nil {
		return nil, fmt.Errorf("init share history: %w", err)
	}

	app := &App{
		config:     cfg,
		log:        log,
		httpClient: httpCl,
		history:    history,
	}

	if token, err := app.GetToken(); err == nil && token != "" {
		httpCl.SetToken(token)
		log.Debug("token loaded from file")
	}

	return app, nil
}

func (a *App) Close() {
	if err := a.history.Close(); err != nil {
		a.log.Warn("failed to close history store", "error", err)
	}
}

// CheckConnection verifies the server answers its health endpoint.
func (a *App) CheckConnection() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return a.httpClient.HealthCheck(ctx)
}

// GetToken returns the stored bearer token.
func (a *App) GetToken() (string, error) {
	tokenBytes, err := os.ReadFile(a.config.TokenPath)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("no token found, run: notekeeper auth set-token")
		}
		return "", fmt.Errorf("read token: %w", err)
	}
	return string(tokenBytes), nil
}

// SaveToken persists the bearer token and starts using it.
func (a *App) SaveToken(token string) error {
	if err := os.WriteFile(a.config.TokenPath, []byte(token), 0600); err != nil {
		return fmt.Errorf("save token: %w", err)
	}
	a.httpClient.SetToken(token)
	return nil
}

// ClearToken forgets the stored token.
func (a *App) ClearToken() error {
	if err := os.Remove(a.config.TokenPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove token: %w", err)
	}
	a.httpClient.SetToken("")
	return nil
}

// ==================== Personal notes ====================

// AddNote creates a note. The returned id is empty when the server ignored
// blank input.
func (a *App) AddNote(ctx context.Context, text string, ttlValue int64, ttlUnit note.TTLUnit) (string, error) {
	return a.httpClient.CreateNote(ctx, text, ttlValue, ttlUnit)
}

func (a *App) ListNotes(ctx context.Context) ([]note.Item, error) {
	return a.httpClient.ListNotes(ctx)
}

// WatchNotes follows the server's live note feed until ctx is cancelled.
func (a *App) WatchNotes(ctx context.Context) (<-chan []note.Item, error) {
	return a.httpClient.WatchNotes(ctx)
}

func (a *App) EditNote(ctx context.Context, id, text string) error {
	return a.httpClient.UpdateNote(ctx, id, text)
}

func (a *App) RemoveNote(ctx context.Context, id string) error {
	return a.httpClient.DeleteNote(ctx, id)
}

// ==================== Shared notes ====================

// CreateShare makes a one-time shared note and records it in the local
// history. Only id, link and ttl are remembered; never the key.
func (a *App) CreateShare(ctx context.Context, text string, ttlSeconds int64, passphrase string) (*ShareCreated, error) {
	created, err := a.httpClient.CreateShare(ctx, text, ttlSeconds, passphrase)
	if err != nil {
		return nil, err
	}

	entry := &HistoryEntry{
		ShareID:    created.ID,
		Link:       created.Link,
		TTLSeconds: created.TTLSeconds,
		CreatedAt:  time.Now(),
	}
	if err := a.history.Save(entry); err != nil {
		a.log.Warn("failed to record share in history", "error", err)
	}

	return created, nil
}

// RevealShare opens a shared note. The server starts its own countdown;
// the caller renders a local one from the returned ttl.
func (a *App) RevealShare(ctx context.Context, id, secret string) (*ShareRevealed, error) {
	return a.httpClient.RevealShare(ctx, id, secret)
}

// ShareHistory lists shares created from this machine, newest first.
func (a *App) ShareHistory() ([]*HistoryEntry, error) {
	return a.history.List()
}
