package share

type createInput struct {
	Body createRequest
}

type createRequest struct {
	Text       string `json:"text" doc:"Note text, encrypted before storage; readable exactly once"`
	TTLSeconds int64  `json:"ttl_seconds" minimum:"1" maximum:"604800" doc:"Seconds the note survives after it is first opened, at most one week"`
	Passphrase string `json:"passphrase,omitempty" doc:"Optional passphrase; when set, the key is derived from it and no key is returned"`
}

type createOutput struct {
	Body createResponse
}

type createResponse struct {
	ID         string `json:"id"`
	Key        string `json:"key,omitempty" doc:"Decryption key; empty for passphrase-protected shares"`
	Link       string `json:"link" doc:"Shareable link with the key in the URL fragment"`
	TTLSeconds int64  `json:"ttl_seconds"`
}

type revealInput struct {
	ID   string `path:"id" doc:"Shared note id"`
	Body revealRequest
}

type revealRequest struct {
	Secret string `json:"secret" doc:"Decryption key from the link fragment, or the passphrase"`
}

type revealOutput struct {
	Body revealResponse
}

type revealResponse struct {
	Text       string `json:"text"`
	TTLSeconds int64  `json:"ttl_seconds" doc:"Seconds until the note destroys itself"`
}
