// Package filestore provides an abstraction for blob storage operations.
//
// It defines a Store interface that can be implemented by various
// storage backends (MinIO, AWS S3, an embedded bolt database). The interface
// is designed to be injected into the detection façade and the CLI.
package filestore

import (
	"context"
	"io"
	"time"

	"github.com/rise-and-shine/mediasniff/val"
)

// BlobRef identifies an object by bucket and key.
type BlobRef struct {
	Bucket string `json:"bucket" validate:"required,bucket_name"`
	Key    string `json:"key"    validate:"required,object_key"`
}

// Ref is a shorthand for BlobRef{Bucket: bucket, Key: key}.
func Ref(bucket, key string) BlobRef {
	return BlobRef{Bucket: bucket, Key: key}
}

// Validate checks the bucket naming rules and the key length.
func (r BlobRef) Validate() error {
	return val.ValidateSchema(r)
}

// String renders the reference as "bucket/key".
func (r BlobRef) String() string {
	return r.Bucket + "/" + r.Key
}

// Store defines the interface for blob storage operations.
// Implementations must be safe for concurrent use.
type Store interface {
	// Put stores the reader's content under ref, replacing any existing object.
	// The content type is sniffed from the content itself.
	Put(ctx context.Context, ref BlobRef, reader io.Reader) (*FileInfo, error)

	// Get opens the object stored under ref.
	// A missing object yields *NotFoundError. The caller must close File.Content.
	Get(ctx context.Context, ref BlobRef) (*File, error)

	// Delete removes the object stored under ref.
	// Deleting a missing object succeeds, so repeated deletes are safe.
	Delete(ctx context.Context, ref BlobRef) error

	// Exists checks if an object is stored under ref.
	Exists(ctx context.Context, ref BlobRef) (bool, error)
}

// File represents a stored object with its content and metadata.
type File struct {
	Content io.ReadCloser
	Info    FileInfo
}

// FileInfo contains metadata about a stored object.
type FileInfo struct {
	Ref          BlobRef
	Size         int64
	ContentType  string
	ETag         string
	LastModified time.Time
}
