package storage

import (
	"context"
	"io"
	"path"
	"strings"
)

// Store is the artifact blob interface: recordings, transcripts, and call
// scripts keyed by slash-separated paths like "{interview_id}/q_{idx}.mp3".
type Store interface {
	Put(ctx context.Context, key, contentType string, r io.Reader) (storedPath string, err error)
	Open(ctx context.Context, key string) (io.ReadCloser, error)
}

// ValidKey rejects keys that could escape the store root.
func ValidKey(key string) bool {
	if key == "" || strings.HasPrefix(key, "/") || strings.Contains(key, "\\") {
		return false
	}
	clean := path.Clean(key)
	if clean != key || clean == ".." || strings.HasPrefix(clean, "../") {
		return false
	}
	return true
}
