package storage

import "errors"

// Common client storage errors
var (
	// ErrDocumentNotFound indicates that document was not found
	ErrDocumentNotFound = errors.New("document not found")

	// ErrMetaNotFound indicates that no metadata record has been persisted yet
	ErrMetaNotFound = errors.New("metadata not found")

	// ErrConflict indicates that the write was based on a stale revision
	ErrConflict = errors.New("document update conflict")

	// ErrStorageClosed indicates that storage is closed
	ErrStorageClosed = errors.New("storage is closed")
)
