package storage

import (
	"context"
	"errors"
	"io"
	"iter"
	"time"
)

// Package storage holds the upload root on local disk and the optional S3-compatible mirror.

// ErrInvalidName is returned when a target name is not a plain file name inside the root.
var ErrInvalidName = errors.New("invalid file name")

// WriteInfo describes a file committed to the upload root.
type WriteInfo struct {
	Path string
	Size int64
}

// FileStore is a flat directory of opaque files. Files are only ever added.
type FileStore interface {
	// Root returns the directory files are written to.
	Root() string
	// EnsureRoot creates the root (and parents) if it does not exist. Safe under concurrent callers.
	EnsureRoot() error
	// Exists reports whether the root currently exists as a directory.
	Exists() bool
	// Write copies r to <root>/<name> through a temp file and a rename.
	// Either the complete file appears under name or nothing does.
	Write(name string, r io.Reader) (WriteInfo, error)
	// Open opens a committed file for reading.
	Open(name string) (io.ReadCloser, error)
	// Names yields the committed file names. Each range reads one directory snapshot;
	// a missing root yields nothing.
	Names() iter.Seq[string]
}

// PutObjectOptions define optional parameters for uploading objects.
// Size should be the exact number of bytes if known; if unknown, set to -1 and the implementation
// will buffer/chunk as supported by the backend.
type PutObjectOptions struct {
	Size        int64
	ContentType string
	Metadata    map[string]string
}

// ObjectInfo contains basic information about an object in storage.
type ObjectInfo struct {
	Key          string
	Size         int64
	ETag         string
	ContentType  string
	LastModified time.Time
	Metadata     map[string]string
}

// ObjectStore is an S3-compatible bucket that stored uploads are mirrored to.
type ObjectStore interface {
	// Put uploads an object under the given key using the provided reader and options.
	Put(ctx context.Context, key string, r io.Reader, opt PutObjectOptions) (ObjectInfo, error)
}
