package store

import "errors"

var (
	// ErrConfig is returned when the store is missing a name or remote URL
	ErrConfig = errors.New("invalid store configuration")

	// ErrOffline is returned when the remote did not answer the connectivity probe
	ErrOffline = errors.New("no connection to remote")

	// ErrNotInitialized is returned by operations called before Initialize
	ErrNotInitialized = errors.New("store is not initialized")
)
