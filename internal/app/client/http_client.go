package client

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/exp/slog"

	"notekeeper/internal/app/client/config"
	"notekeeper/internal/domain/note"
)

type httpClient struct {
	client    *http.Client
	config    *config.Config
	log       *slog.Logger
	baseURL   string
	token     string
	userAgent string
}

func NewHTTPClient(cfg *config.Config, log *slog.Logger) (*httpClient, error) {
	client := &http.Client{
		Timeout: 30 * time.Second,
		Transport: &http.Transport{
			MaxIdleConns:        100,
			IdleConnTimeout:     90 * time.Second,
			MaxIdleConnsPerHost: 10,
		},
	}

	scheme := "http://"
	if cfg.EnableTLS {
		scheme = "https://"
	}

	return &httpClient{
		client:    client,
		config:    cfg,
		log:       log,
		baseURL:   scheme + cfg.ServerAddress,
		userAgent: "Notekeeper-Client/1.0",
	}, nil
}

func (h *httpClient) SetToken(token string) {
	h.token = token
}

// HealthCheck verifies the server is reachable.
func (h *httpClient) HealthCheck(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.baseURL+"/api/health", nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", h.userAgent)

	resp, err := h.client.Do(req)
	if err != nil {
		return fmt.Errorf("server unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("server returned status %d", resp.StatusCode)
	}
	return nil
}

type createNoteRequest struct {
	Text     string       `json:"text"`
	TTLValue int64        `json:"ttl_value,omitempty"`
	TTLUnit  note.TTLUnit `json:"ttl_unit,omitempty"`
}

type noteResponse struct {
	ID     string `json:"id,omitempty"`
	Status string `json:"status"`
}

// CreateNote stores a note and returns its id. An empty id with no error
// means the server ignored blank input.
func (h *httpClient) CreateNote(ctx context.Context, text string, ttlValue int64, ttlUnit note.TTLUnit) (string, error) {
	resp, err := h.doRequest(ctx, http.MethodPost, "/api/notes", createNoteRequest{
		Text:     text,
		TTLValue: ttlValue,
		TTLUnit:  ttlUnit,
	})
	if err != nil {
		return "", err
	}

	var out noteResponse
	if err := h.parseResponse(resp, &out); err != nil {
		return "", err
	}
	return out.ID, nil
}

func (h *httpClient) ListNotes(ctx context.Context) ([]note.Item, error) {
	resp, err := h.doRequest(ctx, http.MethodGet, "/api/notes", nil)
	if err != nil {
		return nil, err
	}

	var out struct {
		Notes []note.Item `json:"notes"`
	}
	if err := h.parseResponse(resp, &out); err != nil {
		return nil, err
	}
	return out.Notes, nil
}

// WatchNotes opens the server's event stream and delivers a note snapshot
// for every event until ctx is cancelled or the stream ends.
func (h *httpClient) WatchNotes(ctx context.Context) (<-chan []note.Item, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.baseURL+"/api/notes/watch", nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "text/event-stream")
	req.Header.Set("User-Agent", h.userAgent)
	if h.token != "" {
		req.Header.Set("Authorization", "Bearer "+h.token)
	}

	// The regular client's timeout would cut the stream off mid-watch;
	// cancellation is ctx's job here.
	streamClient := &http.Client{Transport: h.client.Transport}
	resp, err := streamClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, h.parseResponse(resp, nil)
	}

	out := make(chan []note.Item)
	go func() {
		defer close(out)
		defer resp.Body.Close()

		scanner := bufio.NewScanner(resp.Body)
		scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)
		for scanner.Scan() {
			line := scanner.Text()
			if !strings.HasPrefix(line, "data:") {
				continue
			}

			var snapshot struct {
				Notes []note.Item `json:"notes"`
			}
			if err := json.Unmarshal([]byte(strings.TrimSpace(strings.TrimPrefix(line, "data:"))), &snapshot); err != nil {
				h.log.Warn("skipping malformed watch event", "error", err)
				continue
			}

			select {
			case out <- snapshot.Notes:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, nil
}

func (h *httpClient) UpdateNote(ctx context.Context, id, text string) error {
	resp, err := h.doRequest(ctx, http.MethodPut, "/api/notes/"+id, struct {
		Text string `json:"text"`
	}{Text: text})
	if err != nil {
		return err
	}
	return h.parseResponse(resp, nil)
}

func (h *httpClient) DeleteNote(ctx context.Context, id string) error {
	resp, err := h.doRequest(ctx, http.MethodDelete, "/api/notes/"+id, nil)
	if err != nil {
		return err
	}
	return h.parseResponse(resp, nil)
}

type createShareRequest struct {
	Text       string `json:"text"`
	TTLSeconds int64  `json:"ttl_seconds"`
	Passphrase string `json:"passphrase,omitempty"`
}

// ShareCreated mirrors the server's share creation response.
type ShareCreated struct {
	ID         string `json:"id"`
	Key        string `json:"key,omitempty"`
	Link       string `json:"link"`
	TTLSeconds int64  `json:"ttl_seconds"`
}

func (h *httpClient) CreateShare(ctx context.Context, text string, ttlSeconds int64, passphrase string) (*ShareCreated, error) {
	resp, err := h.doRequest(ctx, http.MethodPost, "/api/shares", createShareRequest{
		Text:       text,
		TTLSeconds: ttlSeconds,
		Passphrase: passphrase,
	})
	if err != nil {
		return nil, err
	}

	var out ShareCreated
	if err := h.parseResponse(resp, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ShareRevealed mirrors the server's reveal response.
type ShareRevealed struct {
	Text       string `json:"text"`
	TTLSeconds int64  `json:"ttl_seconds"`
}

func (h *httpClient) RevealShare(ctx context.Context, id, secret string) (*ShareRevealed, error) {
	resp, err := h.doRequest(ctx, http.MethodPost, "/api/shares/"+id+"/reveal", struct {
		Secret string `json:"secret"`
	}{Secret: secret})
	if err != nil {
		return nil, err
	}

	var out ShareRevealed
	if err := h.parseResponse(resp, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (h *httpClient) doRequest(ctx context.Context, method, path string, body interface{}) (*http.Response, error) {
	var reqBody io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal request body: %w", err)
		}
		reqBody = bytes.NewBuffer(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, h.baseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", h.userAgent)
	if h.token != "" {
		req.Header.Set("Authorization", "Bearer "+h.token)
	}

	h.log.Debug("sending request", "method", method, "url", req.URL.String())

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	return resp, nil
}

func (h *httpClient) parseResponse(resp *http.Response, result interface{}) error {
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	h.log.Debug("received response", "status", resp.StatusCode)

	if resp.StatusCode >= 400 {
		var errResp struct {
			Error  string `json:"error"`
			Detail string `json:"detail"`
		}
		if err := json.Unmarshal(body, &errResp); err == nil {
			if errResp.Detail != "" {
				return fmt.Errorf("server error: %s", errResp.Detail)
			}
			if errResp.Error != "" {
				return fmt.Errorf("server error: %s", errResp.Error)
			}
		}
		return fmt.Errorf("server returned status %d", resp.StatusCode)
	}

	if result != nil {
		if err := json.Unmarshal(body, result); err != nil {
			return fmt.Errorf("parse response: %w", err)
		}
	}
	return nil
}
