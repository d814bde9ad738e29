package note

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

func (h *Handler) listOp() huma.Operation {
	return huma.Operation{
		OperationID: "notes-list",
		Method:      http.MethodGet,
		Path:        "/api/notes",
		Summary:     "List the owner's live notes",
		Description: "Returns decrypted notes in arrival order. Expired notes are swept and never returned.",
		Tags:        []string{"notes"},
		Security:    []map[string][]string{{"bearer": {}}},
		Middlewares: h.middleware,
	}
}

func (h *Handler) watchOp() huma.Operation {
	return huma.Operation{
		OperationID: "notes-watch",
		Method:      http.MethodGet,
		Path:        "/api/notes/watch",
		Summary:     "Watch the owner's notes",
		Description: "Streams the decrypted note list as server-sent events: a fresh snapshot on every change, and at least one per second so expiry is observed promptly.",
		Tags:        []string{"notes"},
		Security:    []map[string][]string{{"bearer": {}}},
		Middlewares: h.middleware,
	}
}

func (h *Handler) createOp() huma.Operation {
	return huma.Operation{
		OperationID: "notes-create",
		Method:      http.MethodPost,
		Path:        "/api/notes",
		Summary:     "Create a note",
		Description: "Stores the text encrypted under a fresh key. Without ttl_value the note lives forever.",
		Tags:        []string{"notes"},
		Security:    []map[string][]string{{"bearer": {}}},
		Middlewares: h.middleware,
	}
}

func (h *Handler) updateOp() huma.Operation {
	return huma.Operation{
		OperationID: "notes-update",
		Method:      http.MethodPut,
		Path:        "/api/notes/{id}",
		Summary:     "Replace a note's text",
		Description: "Re-encrypts the note under a brand new key.",
		Tags:        []string{"notes"},
		Security:    []map[string][]string{{"bearer": {}}},
		Middlewares: h.middleware,
	}
}

func (h *Handler) deleteOp() huma.Operation {
	return huma.Operation{
		OperationID: "notes-delete",
		Method:      http.MethodDelete,
		Path:        "/api/notes/{id}",
		Summary:     "Delete a note",
		Description: "Idempotent: deleting a missing note still succeeds.",
		Tags:        []string{"notes"},
		Security:    []map[string][]string{{"bearer": {}}},
		Middlewares: h.middleware,
	}
}
