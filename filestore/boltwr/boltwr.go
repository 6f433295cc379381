// Package boltwr provides an embedded bbolt implementation of the filestore.Store
// interface. Each blob bucket maps to a bolt bucket; values are snappy-compressed.
package boltwr

import (
	"bytes"
	"context"
	"io"
	"time"

	"github.com/code19m/errx"
	bolt "go.etcd.io/bbolt"

	"github.com/rise-and-shine/mediasniff/filestore"
	"github.com/rise-and-shine/mediasniff/hasher"
	"github.com/rise-and-shine/mediasniff/logger"
	"github.com/rise-and-shine/mediasniff/val"
)

// Client implements the filestore.Store interface on a bolt database file.
type Client struct {
	db  *bolt.DB
	log logger.Logger
	now func() time.Time
}

// Open opens (or creates) the database at cfg.Path and creates the configured buckets.
func Open(ctx context.Context, cfg Config) (*Client, error) {
	if err := val.ValidateSchema(cfg); err != nil {
		return nil, errx.Wrap(err)
	}

	db, err := bolt.Open(cfg.Path, 0o600, &bolt.Options{Timeout: cfg.OpenTimeout})
	if err != nil {
		return nil, errx.New("failed to open bolt database", errx.WithDetails(errx.D{
			"path":  cfg.Path,
			"error": err.Error(),
		}))
	}

	c := &Client{
		db:  db,
		log: logger.Named("filestore.bolt"),
		now: time.Now,
	}

	for _, bucket := range cfg.Buckets {
		if err = c.EnsureBucket(ctx, bucket); err != nil {
			_ = db.Close()
			return nil, errx.Wrap(err)
		}
	}

	return c, nil
}

// Close releases the database file.
func (c *Client) Close() error {
	if err := c.db.Close(); err != nil {
		return errx.Wrap(err)
	}
	return nil
}

// EnsureBucket creates bucket when it does not exist.
func (c *Client) EnsureBucket(ctx context.Context, bucket string) error {
	ref := filestore.Ref(bucket, "")
	if err := ctx.Err(); err != nil {
		return filestore.Cancelled("make-bucket", ref, err)
	}

	err := c.db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucket))
		return err
	})
	if err != nil {
		return filestore.IOFailure("make-bucket", ref, err)
	}
	return nil
}

// Put stores the content under ref. The target bucket must exist.
func (c *Client) Put(ctx context.Context, ref filestore.BlobRef, reader io.Reader) (*filestore.FileInfo, error) {
	if err := ref.Validate(); err != nil {
		return nil, errx.Wrap(err)
	}

	data, contentType, err := filestore.ReadContent(reader)
	if err != nil {
		return nil, filestore.Classify(ctx, "put", ref, err)
	}
	if err = ctx.Err(); err != nil {
		return nil, filestore.Cancelled("put", ref, err)
	}

	rec := record{
		ContentType:  contentType,
		ETag:         hasher.ETag(data),
		LastModified: c.now().UTC(),
		Data:         data,
	}

	err = c.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(ref.Bucket))
		if b == nil {
			return filestore.BucketNotFound(ref)
		}
		return b.Put([]byte(ref.Key), rec.encode())
	})
	if err != nil {
		return nil, filestore.Classify(ctx, "put", ref, err)
	}

	c.log.With("bucket", ref.Bucket, "key", ref.Key, "size", len(data)).Debug("object stored")
	return info(ref, rec), nil
}

// Get opens the object stored under ref. The returned content is an in-memory copy.
func (c *Client) Get(ctx context.Context, ref filestore.BlobRef) (*filestore.File, error) {
	if err := ctx.Err(); err != nil {
		return nil, filestore.Cancelled("get", ref, err)
	}

	var rec record
	err := c.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(ref.Bucket))
		if b == nil {
			return filestore.BucketNotFound(ref)
		}
		raw := b.Get([]byte(ref.Key))
		if raw == nil {
			return filestore.NewNotFoundError(ref)
		}
		var err error
		rec, err = decodeRecord(raw)
		return err
	})
	if err != nil {
		return nil, filestore.Classify(ctx, "get", ref, err)
	}

	return &filestore.File{
		Content: io.NopCloser(bytes.NewReader(rec.Data)),
		Info:    *info(ref, rec),
	}, nil
}

// Delete removes the object stored under ref. A missing key is not an error.
func (c *Client) Delete(ctx context.Context, ref filestore.BlobRef) error {
	if err := ctx.Err(); err != nil {
		return filestore.Cancelled("delete", ref, err)
	}

	err := c.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(ref.Bucket))
		if b == nil {
			return filestore.BucketNotFound(ref)
		}
		return b.Delete([]byte(ref.Key))
	})
	return filestore.Classify(ctx, "delete", ref, err)
}

// Exists checks if an object is stored under ref.
func (c *Client) Exists(ctx context.Context, ref filestore.BlobRef) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, filestore.Cancelled("exists", ref, err)
	}

	var found bool
	err := c.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(ref.Bucket))
		if b == nil {
			return filestore.BucketNotFound(ref)
		}
		found = b.Get([]byte(ref.Key)) != nil
		return nil
	})
	if err != nil {
		return false, filestore.Classify(ctx, "exists", ref, err)
	}
	return found, nil
}

func info(ref filestore.BlobRef, rec record) *filestore.FileInfo {
	return &filestore.FileInfo{
		Ref:          ref,
		Size:         int64(len(rec.Data)),
		ContentType:  rec.ContentType,
		ETag:         rec.ETag,
		LastModified: rec.LastModified,
	}
}
