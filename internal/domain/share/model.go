package share

// SharedNote is a one-time note. The decryption key is never stored here:
// it lives only in the creator's session and inside the share link. Once
// Opened is true the record is logically dead even if the physical delete
// has not happened yet.
type SharedNote struct {
	ID         string `json:"id"`
	Ciphertext string `json:"ciphertext"`
	CreatedAt  int64  `json:"created_at"`  // epoch milliseconds
	TTLSeconds int64  `json:"ttl_seconds"` // counted from first read, not creation
	Opened     bool   `json:"opened"`
	// KeySalt is set only for passphrase-protected shares; the key is then
	// derived from the reader's passphrase and this salt instead of being
	// carried in the link.
	KeySalt string `json:"key_salt,omitempty"`
}

// Created is what the creator gets back from Share. Key is empty for
// passphrase-protected shares.
type Created struct {
	ID         string `json:"id"`
	Key        string `json:"key,omitempty"`
	TTLSeconds int64  `json:"ttl_seconds"`
}
