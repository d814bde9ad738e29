package share

import (
	"errors"

	"notekeeper/internal/crypto"
)

var (
	ErrNotFound      = errors.New("shared note not found")
	ErrAlreadyOpened = errors.New("shared note already opened")
	ErrEmptyNote     = errors.New("empty note")
	ErrInvalidTTL    = errors.New("ttl must be positive")

	// ErrKeyMismatch mirrors the crypto sentinel so callers of this package
	// only ever match against share errors.
	ErrKeyMismatch = crypto.ErrKeyMismatch
)
