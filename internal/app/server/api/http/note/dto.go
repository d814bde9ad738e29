package note

import (
	"notekeeper/internal/domain/note"
)

type createInput struct {
	Body createRequest
}

type createRequest struct {
	Text     string       `json:"text" doc:"Note text, encrypted server-side before storage"`
	TTLValue int64        `json:"ttl_value,omitempty" doc:"Lifetime value; omit for a note that never expires"`
	TTLUnit  note.TTLUnit `json:"ttl_unit,omitempty" enum:"seconds,minutes,hours,days,weeks" doc:"Lifetime unit"`
}

type output struct {
	Body response
}

type response struct {
	ID     string `json:"id,omitempty"`
	Status string `json:"status"`
}

type listOutput struct {
	Body listResponse
}

type listResponse struct {
	Notes []note.Item `json:"notes"`
}

type updateInput struct {
	ID   string `path:"id" doc:"Note id"`
	Body updateRequest
}

type updateRequest struct {
	Text string `json:"text" doc:"Replacement text; the note is re-encrypted under a new key"`
}

type deleteInput struct {
	ID string `path:"id" doc:"Note id"`
}
