package share

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

func (h *Handler) createOp() huma.Operation {
	return huma.Operation{
		OperationID: "shares-create",
		Method:      http.MethodPost,
		Path:        "/api/shares",
		Summary:     "Create a one-time shared note",
		Description: "Encrypts the text and returns a link whose fragment carries the key. The countdown starts when the note is first opened, not when it is created.",
		Tags:        []string{"shares"},
		Security:    []map[string][]string{{"bearer": {}}},
		Middlewares: h.authMiddleware,
	}
}

func (h *Handler) revealOp() huma.Operation {
	return huma.Operation{
		OperationID: "shares-reveal",
		Method:      http.MethodPost,
		Path:        "/api/shares/{id}/reveal",
		Summary:     "Open a shared note",
		Description: "Single-shot read: the first caller with the right secret gets the text and starts the self-destruct countdown. Everyone after that gets 410.",
		Tags:        []string{"shares"},
		Middlewares: h.middleware,
	}
}
