package cli

import "errors"

var (
	// ErrInvalidRoot reports a root path that does not exist or is not a directory.
	ErrInvalidRoot = errors.New("invalid root directory")
	// ErrInvalidHeight reports a tree height that is not a non-negative integer.
	ErrInvalidHeight = errors.New("invalid height")
)
