package note

import (
	"errors"
)

var (
	ErrNotFound   = errors.New("note not found")
	ErrEmptyNote  = errors.New("empty note")
	ErrInvalidTTL = errors.New("invalid ttl")
)
