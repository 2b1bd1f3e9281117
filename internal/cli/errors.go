package cli

import "errors"

var (
	// ErrCancelled reports an interrupt received while waiting for console input.
	ErrCancelled = errors.New("cancelled by interrupt")
)
