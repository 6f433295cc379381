// Package miniowr provides a MinIO implementation of the filestore.Store interface.
package miniowr

import (
	"bytes"
	"context"
	"io"
	"net/http"

	"github.com/code19m/errx"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/rise-and-shine/mediasniff/filestore"
	"github.com/rise-and-shine/mediasniff/logger"
	"github.com/rise-and-shine/mediasniff/val"
)

const (
	codeNoSuchKey    = "NoSuchKey"
	codeNoSuchBucket = "NoSuchBucket"
)

// Client implements the filestore.Store interface using MinIO.
type Client struct {
	client *minio.Client
	log    logger.Logger
}

// New creates a new MinIO filestore client and creates the configured buckets
// that do not exist yet.
func New(ctx context.Context, cfg Config) (*Client, error) {
	if err := val.ValidateSchema(cfg); err != nil {
		return nil, errx.Wrap(err)
	}

	lookup := minio.BucketLookupAuto
	if cfg.PathStyle {
		lookup = minio.BucketLookupPath
	}

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:        credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure:       cfg.UseSSL,
		Region:       cfg.Region,
		BucketLookup: lookup,
	})
	if err != nil {
		return nil, errx.New("failed to create MinIO client", errx.WithDetails(errx.D{"error": err.Error()}))
	}

	c := &Client{
		client: client,
		log:    logger.Named("filestore.minio"),
	}

	for _, bucket := range cfg.Buckets {
		if err = c.EnsureBucket(ctx, bucket); err != nil {
			return nil, errx.Wrap(err)
		}
	}

	return c, nil
}

// EnsureBucket creates bucket when it does not exist.
func (c *Client) EnsureBucket(ctx context.Context, bucket string) error {
	ref := filestore.Ref(bucket, "")

	exists, err := c.client.BucketExists(ctx, bucket)
	if err != nil {
		return filestore.Classify(ctx, "bucket-exists", ref, err)
	}
	if exists {
		return nil
	}

	if err = c.client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
		return filestore.Classify(ctx, "make-bucket", ref, err)
	}
	c.log.With("bucket", bucket).Info("bucket created")
	return nil
}

// Put stores the content under ref. Content type is detected from the content.
func (c *Client) Put(ctx context.Context, ref filestore.BlobRef, reader io.Reader) (*filestore.FileInfo, error) {
	if err := ref.Validate(); err != nil {
		return nil, errx.Wrap(err)
	}

	data, contentType, err := filestore.ReadContent(reader)
	if err != nil {
		return nil, filestore.Classify(ctx, "put", ref, err)
	}
	size := int64(len(data))

	info, err := c.client.PutObject(ctx, ref.Bucket, ref.Key, bytes.NewReader(data), size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return nil, c.wrapMinioError(ctx, "put", ref, err)
	}

	return &filestore.FileInfo{
		Ref:          ref,
		Size:         info.Size,
		ContentType:  contentType,
		ETag:         info.ETag,
		LastModified: info.LastModified,
	}, nil
}

// Get opens the object stored under ref.
func (c *Client) Get(ctx context.Context, ref filestore.BlobRef) (*filestore.File, error) {
	obj, err := c.client.GetObject(ctx, ref.Bucket, ref.Key, minio.GetObjectOptions{})
	if err != nil {
		return nil, c.wrapMinioError(ctx, "get", ref, err)
	}

	// GetObject is lazy; Stat performs the request and surfaces missing keys.
	stat, err := obj.Stat()
	if err != nil {
		_ = obj.Close()
		return nil, c.wrapMinioError(ctx, "get", ref, err)
	}

	return &filestore.File{
		Content: obj,
		Info: filestore.FileInfo{
			Ref:          ref,
			Size:         stat.Size,
			ContentType:  stat.ContentType,
			ETag:         stat.ETag,
			LastModified: stat.LastModified,
		},
	}, nil
}

// Delete removes the object stored under ref. A missing key is not an error.
func (c *Client) Delete(ctx context.Context, ref filestore.BlobRef) error {
	err := c.client.RemoveObject(ctx, ref.Bucket, ref.Key, minio.RemoveObjectOptions{})
	if err != nil {
		err = c.wrapMinioError(ctx, "delete", ref, err)
		if filestore.IsNotFound(err) {
			return nil
		}
		return err
	}
	return nil
}

// Exists checks if an object is stored under ref.
func (c *Client) Exists(ctx context.Context, ref filestore.BlobRef) (bool, error) {
	_, err := c.client.StatObject(ctx, ref.Bucket, ref.Key, minio.StatObjectOptions{})
	if err != nil {
		err = c.wrapMinioError(ctx, "exists", ref, err)
		if filestore.IsNotFound(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// wrapMinioError converts MinIO errors to filestore errors.
func (c *Client) wrapMinioError(ctx context.Context, op string, ref filestore.BlobRef, err error) error {
	errResp := minio.ToErrorResponse(err)
	switch {
	case errResp.Code == codeNoSuchKey:
		return filestore.NewNotFoundError(ref)
	case errResp.Code == codeNoSuchBucket:
		return filestore.BucketNotFound(ref)
	case errResp.StatusCode == http.StatusNotFound && op == "exists":
		return filestore.NewNotFoundError(ref)
	}
	return filestore.Classify(ctx, op, ref, err)
}
