package note

import (
	"context"
	"errors"

	"notekeeper/internal/app/server/api/http/middleware/auth"
	"notekeeper/internal/domain/note"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/sse"
	"golang.org/x/exp/slog"
)

type Handler struct {
	service    note.Servicer
	log        *slog.Logger
	middleware huma.Middlewares
}

func NewHandler(service note.Servicer, log *slog.Logger, mws huma.Middlewares) *Handler {
	return &Handler{
		service:    service,
		log:        log,
		middleware: mws,
	}
}

func (h *Handler) SetupRoutes(api huma.API) {
	huma.Register(api, h.listOp(), h.list)
	huma.Register(api, h.createOp(), h.create)
	huma.Register(api, h.updateOp(), h.update)
	huma.Register(api, h.deleteOp(), h.delete)
	sse.Register(api, h.watchOp(), map[string]any{
		"notes": listResponse{},
	}, h.watch)
}

func (h *Handler) list(ctx context.Context, _ *struct{}) (*listOutput, error) {
	ownerID, ok := auth.GetOwnerID(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("Unauthorized")
	}

	items, err := h.service.List(ctx, ownerID)
	if err != nil {
		return nil, huma.Error503ServiceUnavailable("note store unavailable")
	}

	return &listOutput{
		Body: listResponse{Notes: items},
	}, nil
}

func (h *Handler) create(ctx context.Context, input *createInput) (*output, error) {
	ownerID, ok := auth.GetOwnerID(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("Unauthorized")
	}

	ttl := note.Forever()
	if input.Body.TTLValue != 0 || input.Body.TTLUnit != "" {
		ttl = note.Expiring(input.Body.TTLValue, input.Body.TTLUnit)
	}

	id, err := h.service.Add(ctx, ownerID, input.Body.Text, ttl)
	switch {
	case errors.Is(err, note.ErrEmptyNote):
		// Blank input is dropped quietly, same as an empty console submit.
		return &output{Body: response{Status: "Ignored"}}, nil
	case errors.Is(err, note.ErrInvalidTTL):
		return nil, huma.Error422UnprocessableEntity(err.Error())
	case err != nil:
		return nil, huma.Error503ServiceUnavailable("note store unavailable")
	}

	return &output{
		Body: response{ID: id, Status: "Ok"},
	}, nil
}

// watch streams the owner's note list as a server-sent event on every
// change, until the client disconnects.
func (h *Handler) watch(ctx context.Context, _ *struct{}, send sse.Sender) {
	ownerID, ok := auth.GetOwnerID(ctx)
	if !ok {
		return
	}

	feed, err := h.service.Watch(ctx, ownerID)
	if err != nil {
		h.log.Error("failed to start notes watch", "owner_id", ownerID, "error", err)
		return
	}

	for items := range feed {
		if err := send.Data(listResponse{Notes: items}); err != nil {
			// The client went away; the feed is torn down via ctx.
			return
		}
	}
}

func (h *Handler) update(ctx context.Context, input *updateInput) (*output, error) {
	ownerID, ok := auth.GetOwnerID(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("Unauthorized")
	}

	err := h.service.Edit(ctx, ownerID, input.ID, input.Body.Text)
	switch {
	case errors.Is(err, note.ErrEmptyNote):
		return &output{Body: response{ID: input.ID, Status: "Ignored"}}, nil
	case errors.Is(err, note.ErrNotFound):
		return nil, huma.Error404NotFound("note not found")
	case err != nil:
		return nil, huma.Error503ServiceUnavailable("note store unavailable")
	}

	return &output{
		Body: response{ID: input.ID, Status: "Ok"},
	}, nil
}

func (h *Handler) delete(ctx context.Context, input *deleteInput) (*output, error) {
	ownerID, ok := auth.GetOwnerID(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("Unauthorized")
	}

	if err := h.service.Remove(ctx, ownerID, input.ID); err != nil {
		return nil, huma.Error503ServiceUnavailable("note store unavailable")
	}

	return &output{
		Body: response{ID: input.ID, Status: "Ok"},
	}, nil
}
