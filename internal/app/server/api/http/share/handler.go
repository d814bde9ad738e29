package share

import (
	"context"
	"errors"

	"notekeeper/internal/app/server/api/http/middleware/auth"
	"notekeeper/internal/crypto"
	"notekeeper/internal/domain/share"

	"github.com/danielgtaylor/huma/v2"
	"golang.org/x/exp/slog"
)

type Handler struct {
	service share.Servicer
	// linkOrigin is the public base URL used to assemble share links.
	linkOrigin string
	log        *slog.Logger
	// middleware guards reveal, which is public: the link is the
	// credential. authMiddleware guards creation.
	middleware     huma.Middlewares
	authMiddleware huma.Middlewares
}

func NewHandler(service share.Servicer, linkOrigin string, log *slog.Logger, public, authed huma.Middlewares) *Handler {
	return &Handler{
		service:        service,
		linkOrigin:     linkOrigin,
		log:            log,
		middleware:     public,
		authMiddleware: authed,
	}
}

func (h *Handler) SetupRoutes(api huma.API) {
	huma.Register(api, h.createOp(), h.create)
	huma.Register(api, h.revealOp(), h.reveal)
}

func (h *Handler) create(ctx context.Context, input *createInput) (*createOutput, error) {
	if _, ok := auth.GetOwnerID(ctx); !ok {
		return nil, huma.Error401Unauthorized("Unauthorized")
	}

	var (
		created *share.Created
		err     error
	)
	if input.Body.Passphrase != "" {
		created, err = h.service.SharePassphrase(ctx, input.Body.Text, input.Body.TTLSeconds, input.Body.Passphrase)
	} else {
		created, err = h.service.Share(ctx, input.Body.Text, input.Body.TTLSeconds)
	}

	switch {
	case errors.Is(err, share.ErrEmptyNote):
		return nil, huma.Error422UnprocessableEntity("note text is empty")
	case errors.Is(err, share.ErrInvalidTTL):
		return nil, huma.Error422UnprocessableEntity("ttl must be positive")
	case err != nil:
		return nil, huma.Error503ServiceUnavailable("share store unavailable")
	}

	return &createOutput{
		Body: createResponse{
			ID:         created.ID,
			Key:        created.Key,
			Link:       share.BuildLink(h.linkOrigin, created.ID, crypto.Key(created.Key)),
			TTLSeconds: created.TTLSeconds,
		},
	}, nil
}

// reveal hands the plaintext to exactly one caller. The countdown keeps
// running server-side after the response; when it hits zero the record is
// deleted no matter what the reader does with the text.
func (h *Handler) reveal(ctx context.Context, input *revealInput) (*revealOutput, error) {
	revealed, err := h.service.Reveal(ctx, input.ID, input.Body.Secret)
	switch {
	case errors.Is(err, share.ErrNotFound):
		return nil, huma.Error404NotFound("shared note not found")
	case errors.Is(err, share.ErrAlreadyOpened):
		return nil, huma.Error410Gone("shared note was already opened")
	case errors.Is(err, share.ErrKeyMismatch):
		return nil, huma.Error403Forbidden("wrong key or passphrase")
	case err != nil:
		return nil, huma.Error503ServiceUnavailable("share store unavailable")
	}

	return &revealOutput{
		Body: revealResponse{
			Text:       revealed.Text(),
			TTLSeconds: revealed.TTLSeconds,
		},
	}, nil
}
