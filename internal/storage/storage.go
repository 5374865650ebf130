// Package storage contains the blob-storage provider abstraction: a fixed set
// of interchangeable backends (Google Drive, Supabase Storage, S3-compatible,
// local disk), a startup-time selector that binds exactly one of them, and the
// upload adapter the service layer talks to.
package storage

import (
	"context"
	"io"
	"path"
	"strings"
)

// Categories group uploads under a user's prefix.
const (
	CategoryResume         = "resume"
	CategoryJobDescription = "job_description"
	CategoryAudioNote      = "audio-note"
)

// Result describes where an uploaded object ended up. ViewLink and
// DownloadLink differ only when the provider distinguishes inline viewing
// from attachment download; StoragePath is the provider-side object key.
type Result struct {
	ViewLink     string `json:"view_link"`
	DownloadLink string `json:"download_link"`
	StoragePath  string `json:"storage_path"`
}

// Provider is one storage backend capable of accepting an upload and handing
// back retrieval links. Implementations are safe for concurrent use.
type Provider interface {
	// Name identifies the provider in logs and selection output.
	Name() string
	// Upload stores the object under key using streaming I/O.
	Upload(ctx context.Context, key string, r io.Reader, size int64, contentType string) (Result, error)
}

// ContentTypeFor maps a filename extension to a MIME type, defaulting to
// application/octet-stream.
func ContentTypeFor(filename string) string {
	switch strings.ToLower(path.Ext(filename)) {
	case ".pdf":
		return "application/pdf"
	case ".doc":
		return "application/msword"
	case ".docx":
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	default:
		return "application/octet-stream"
	}
}
