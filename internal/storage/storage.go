package storage

import (
	"context"
	"io"
	"time"
)

// Package storage holds the blob storage seam for the media pipeline. Objects
// are addressed by slash-separated keys whose first segment is the category
// directory (images/, videos/, documents/, thumbnails/). Two backends exist:
// local disk, which owns the uploads/ layout the public site serves from, and
// an S3-compatible bucket.

// PutObjectOptions define optional parameters for storing objects.
// Size should be the exact number of bytes if known; -1 lets the backend
// buffer or chunk as it supports.
type PutObjectOptions struct {
	Size        int64
	ContentType string
	Metadata    map[string]string
}

// ObjectInfo describes a stored object.
type ObjectInfo struct {
	Key          string
	Size         int64
	ETag         string
	ContentType  string
	LastModified time.Time
	Metadata     map[string]string
}

// Storage is the blob store used by the ingest service. Implementations must be
// safe for concurrent use: each pipeline call only ever creates objects under
// freshly generated keys, so no cross-call locking is required.
type Storage interface {
	// Put stores an object under key from the provided reader.
	Put(ctx context.Context, key string, r io.Reader, opt PutObjectOptions) (ObjectInfo, error)
	// Get opens an object's content as a streaming reader alongside its info.
	Get(ctx context.Context, key string) (io.ReadCloser, ObjectInfo, error)
	// Delete removes an object by key. Missing keys are not an error.
	Delete(ctx context.Context, key string) error
	// PresignGet returns a URL the object can be fetched from: time-limited and
	// signed for the S3 backend, a stable public path for local disk.
	PresignGet(ctx context.Context, key string, expiry time.Duration) (string, error)
}
