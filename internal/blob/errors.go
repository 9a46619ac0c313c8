package blob

import "errors"

var (
	// ErrNotFound indicates the requested key does not exist.
	ErrNotFound = errors.New("blob: not found")
	// ErrAlreadyExists indicates a Put targeted an existing key.
	ErrAlreadyExists = errors.New("blob: key already exists")
	// ErrEmptyKey indicates an operation was called with an empty key.
	ErrEmptyKey = errors.New("blob: empty key")
)
