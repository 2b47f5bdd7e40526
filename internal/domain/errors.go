package domain

import "errors"

var (
	// ErrNotFound marks a lookup for an entity that does not (or no longer) exist.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyFriend marks a duplicate friend edge insertion.
	ErrAlreadyFriend = errors.New("already a friend")
	// ErrInvalidInput marks user input that fails validation.
	ErrInvalidInput = errors.New("invalid input")
)
