package service

import "errors"

// Upload failures. All of them are terminal for the request and never retried.
var (
	// ErrEmptyContent means no file or a zero-byte file was supplied.
	ErrEmptyContent = errors.New("file is empty")
	// ErrDirectoryUnavailable means the upload root could not be created or accessed.
	ErrDirectoryUnavailable = errors.New("upload directory unavailable")
	// ErrWriteFailed wraps the I/O error that interrupted copying the content to disk.
	ErrWriteFailed = errors.New("upload failed")
	// ErrCatalogDisabled is returned by History when no catalog database is configured.
	ErrCatalogDisabled = errors.New("upload catalog is not configured")
)
