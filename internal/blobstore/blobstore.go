package blobstore

import (
	"context"
	"io"
)

// PutResult describes one persisted media payload.
type PutResult struct {
	SHA256    string
	SizeBytes int64
	Key       string
}

// BlobInfo reports stored payload facts needed for content responses.
type BlobInfo struct {
	SizeBytes int64
}

// BlobStore is the byte-storage abstraction behind uploaded assets.
type BlobStore interface {
	Put(ctx context.Context, r io.Reader) (PutResult, error)
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	Stat(ctx context.Context, key string) (BlobInfo, error)
	Delete(ctx context.Context, key string) error
}
