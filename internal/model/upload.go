package model

import (
	"io"
	"time"
)

// DefaultDeclaredName replaces a missing client-declared filename.
const DefaultDeclaredName = "upload"

// UploadRequest is a single incoming upload. It lives only for the duration of one request.
type UploadRequest struct {
	Content             io.Reader
	DeclaredName        string
	DeclaredContentType string
}

// UploadResult describes a file accepted into the upload root.
type UploadResult struct {
	AssignedName string `json:"filename"`
	OriginalName string `json:"originalName"`
	StoredPath   string `json:"path"`
	ByteSize     int64  `json:"size"`
	ContentType  string `json:"contentType"`
	AccessURL    string `json:"url"`
}

// UploadRecord is the catalog row written for every accepted upload.
// This is a pure domain model with no database-specific dependencies or tags.
type UploadRecord struct {
	ID           string    `json:"id"`
	Filename     string    `json:"filename"`
	OriginalName string    `json:"original_name"`
	StoragePath  string    `json:"storage_path"`
	Size         int64     `json:"size"`
	ContentType  string    `json:"content_type"`
	CreatedAt    time.Time `json:"created_at"`
}
