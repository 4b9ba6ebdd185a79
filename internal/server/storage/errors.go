package storage

import "errors"

// Common storage errors
var (
	// ErrDocumentNotFound indicates that document was not found in storage
	ErrDocumentNotFound = errors.New("document not found")

	// ErrConflict indicates that the stored revision wins over the incoming one
	ErrConflict = errors.New("document update conflict")
)
